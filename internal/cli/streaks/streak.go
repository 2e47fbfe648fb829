package streaks

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/garden"
	"github.com/julianstephens/steplog/internal/models"
)

type StreakCmd struct {
	Refresh bool `help:"Recompute the streak instead of using today's cached value."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	var (
		data models.StreakData
		err  error
	)
	if c.Refresh {
		data, err = ctx.Garden.UpdateStreak(ctx.Ctx())
	} else {
		data, err = ctx.Garden.GetStreakData(ctx.Ctx())
	}

	w := ctx.Stdout()
	if garden.IsIncomplete(err) {
		fmt.Fprintf(w, "⚠ Some days could not be read and count as missed: %v\n\n", err)
	} else if err != nil {
		return fmt.Errorf("failed to read streak: %w", err)
	}

	fmt.Fprintf(w, "Current streak: %d day(s)\n", data.CurrentStreak)
	fmt.Fprintf(w, "Plant stage:    %s\n", garden.PlantStage(data.CurrentStreak))
	fmt.Fprintf(w, "Progress:       %s\n", cli.StreakDots(data.CurrentStreak))
	if days := garden.DaysUntilBloom(data.CurrentStreak); days > 0 {
		fmt.Fprintf(w, "Days to bloom:  %d\n", days)
	}
	fmt.Fprintf(w, "\n%s\n", garden.MotivationalMessage(data.CurrentStreak))
	return nil
}

type GardenCmd struct{}

func (c *GardenCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Garden.Snapshot(ctx.Ctx())
	if err != nil {
		fmt.Fprintf(ctx.Stdout(), "⚠ Some garden data could not be read: %v\n\n", err)
	}

	w := ctx.Stdout()
	if snap.Transition != nil && snap.Transition.ShouldAnimate {
		fmt.Fprintf(w, "✨ Your plant grew from %s to %s!\n\n", snap.Transition.PreviousStage, snap.Transition.CurrentStage)
	}

	for _, line := range cli.PlantArt(snap.Stage) {
		fmt.Fprintf(w, "    %s\n", line)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n\n", snap.Message)
	fmt.Fprintf(w, "Streak: %s  %d day(s)\n", cli.StreakDots(snap.Streak.CurrentStreak), snap.Streak.CurrentStreak)
	if snap.DaysUntilBloom > 0 {
		fmt.Fprintf(w, "%d more day(s) until your flower blooms.\n", snap.DaysUntilBloom)
	}

	fmt.Fprintln(w)
	if len(snap.Bloomed) == 0 {
		fmt.Fprintln(w, "Your collection is empty. Keep a 7-day streak to bloom your first flower.")
		return nil
	}

	fmt.Fprintf(w, "Collection (%d):\n", len(snap.Bloomed))
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Bloomed", "Streak", "ID"})
	for i, p := range snap.Bloomed {
		tw.AppendRow(table.Row{i + 1, p.BloomedDate, p.StreakAchieved, p.ID})
	}
	tw.Render()
	return nil
}
