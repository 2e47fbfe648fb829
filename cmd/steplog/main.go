package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/cli/backups"
	"github.com/julianstephens/steplog/internal/cli/settings"
	"github.com/julianstephens/steplog/internal/cli/steps"
	"github.com/julianstephens/steplog/internal/cli/streaks"
	"github.com/julianstephens/steplog/internal/cli/system"
	"github.com/julianstephens/steplog/internal/config"
	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/errors"
	"github.com/julianstephens/steplog/internal/logger"
	"github.com/julianstephens/steplog/internal/storage"
	"github.com/julianstephens/steplog/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding config.yaml, logs and the default database." type:"string" default:"~/.config/steplog"`
	Store     string `help:"SQLite path, *.json path, PostgreSQL connection string, or 'keyring'. PostgreSQL credentials must NOT be embedded in the connection string." type:"string"`
	Timezone  string `help:"IANA timezone used to decide which day steps belong to." type:"string"`
	Verbose   bool   `short:"v" help:"Enable debug logging to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize steplog storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Validate stored day records and garden data."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Debug    system.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`

	Record  steps.RecordCmd  `cmd:"" help:"Set the step count for today or a past day."`
	Add     steps.AddCmd     `cmd:"" help:"Add steps to today's count."`
	Today   steps.TodayCmd   `cmd:"" help:"Show today's progress."`
	Week    steps.WeekCmd    `cmd:"" help:"Show the last seven days."`
	History steps.HistoryCmd `cmd:"" help:"Show the activity log."`
	Track   steps.TrackCmd   `cmd:"" help:"Read step updates from stdin and save them periodically."`
	Prune   steps.PruneCmd   `cmd:"" help:"Delete day records beyond the retention window."`

	Streak streaks.StreakCmd `cmd:"" help:"Show the current streak."`
	Garden streaks.GardenCmd `cmd:"" help:"Show the plant and the bloomed collection."`

	Goal struct {
		Get settings.GoalGetCmd `cmd:"" help:"Show the daily goal." default:"1"`
		Set settings.GoalSetCmd `cmd:"" help:"Change the daily goal."`
	} `cmd:"" help:"Manage the daily step goal."`
	Settings settings.SettingsCmd `cmd:"" help:"Show the effective settings."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report whether the OS keyring is usable." default:"1"`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily step tracker with streaks and a growing garden"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir := config.ExpandHome(CLI.ConfigDir)
	cfg, err := config.Load(configDir)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Store != "" {
		cfg.Store = CLI.Store
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Verbose {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	command := ctx.Command()
	keyringOnly := strings.HasPrefix(command, "keyring")

	// Keyring commands manage the store's credentials, so they must work
	// before any store is reachable.
	var store storage.Provider
	if !keyringOnly {
		store, err = cli.OpenStore(cfg.Store)
		if err != nil {
			errors.Fatal(err)
		}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock, err := utils.NewSystemClock(cfg.Timezone)
	if err != nil {
		errors.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	appCtx := cli.NewContext(store, cfg, configDir, clock)
	appCtx.Base = sigCtx

	// Load the store before running the command (Init handles its own setup)
	if store != nil && !strings.HasPrefix(command, "init") {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Failed to close store", "error", cerr)
		}
	}
	if err != nil {
		stop()
		errors.Fatal(err)
	}
}
