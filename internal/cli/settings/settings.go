package settings

import (
	"fmt"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/config"
	"github.com/julianstephens/steplog/internal/storage"
)

// SettingsCmd prints the effective configuration after defaults, the config
// file, the environment and flags have been applied.
type SettingsCmd struct{}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	goal, _ := ctx.Goals.Get(ctx.Ctx())

	store := cfg.Store
	if storage.IsPostgres(store) {
		store = "postgresql (connection string hidden)"
	}

	w := ctx.Stdout()
	fmt.Fprintln(w, "Current Settings:")
	fmt.Fprintf(w, "  Config File:           %s\n", config.Path(ctx.ConfigDir))
	fmt.Fprintf(w, "  Store:                 %s\n", store)
	fmt.Fprintf(w, "  Timezone:              %s\n", cfg.Timezone)
	fmt.Fprintf(w, "  Daily Goal:            %s\n", cli.FormatSteps(goal))
	fmt.Fprintf(w, "  Default Goal:          %s\n", cli.FormatSteps(cfg.DefaultGoal))
	if cfg.RetentionDays == 0 {
		fmt.Fprintln(w, "  Retention:             keep everything")
	} else {
		fmt.Fprintf(w, "  Retention:             %d days\n", cfg.RetentionDays)
	}
	fmt.Fprintf(w, "  Save Interval:         %s\n", cfg.SaveInterval)
	fmt.Fprintf(w, "  Notifications Enabled: %v\n", cfg.NotificationsEnabled)
	fmt.Fprintf(w, "  Debug:                 %v\n", cfg.Debug)
	return nil
}
