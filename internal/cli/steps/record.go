package steps

import (
	"fmt"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/garden"
	"github.com/julianstephens/steplog/internal/validation"
)

type RecordCmd struct {
	Steps int    `arg:"" help:"Cumulative step count for the day."`
	Date  string `help:"Day to record (YYYY-MM-DD). Defaults to today." default:""`
}

func (c *RecordCmd) Run(ctx *cli.Context) error {
	if err := validation.ValidateSteps(c.Steps); err != nil {
		return err
	}

	if c.Date != "" && c.Date != ctx.Today() {
		return c.backfill(ctx)
	}

	t := ctx.NewTracker()
	if err := t.Start(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to load today's steps: %w", err)
	}
	before := t.State()
	if err := t.SetTotal(ctx.Ctx(), c.Steps); err != nil {
		return fmt.Errorf("failed to record steps: %w", err)
	}
	after := t.State()
	// The tracker refreshes the streak only when the goal is crossed upward.
	if before.GoalReached && !after.GoalReached {
		if _, err := ctx.Garden.UpdateStreak(ctx.Ctx()); err != nil && !garden.IsIncomplete(err) {
			return fmt.Errorf("failed to update streak: %w", err)
		}
	}
	return printProgress(ctx, before.GoalReached, after)
}

// backfill records a past day. The goal already stored for that day is kept;
// a new day uses the current goal.
func (c *RecordCmd) backfill(ctx *cli.Context) error {
	if err := validation.ValidateDateKey(c.Date); err != nil {
		return err
	}
	if c.Date > ctx.Today() {
		return fmt.Errorf("cannot record steps for a future day: %s", c.Date)
	}

	goal, err := ctx.Goals.Get(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to read daily goal: %w", err)
	}
	existing, ok, err := ctx.Days.GetDayData(ctx.Ctx(), c.Date)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.Date, err)
	}
	if ok {
		goal = existing.Goal
	}

	if err := ctx.Days.SaveDayData(ctx.Ctx(), c.Date, c.Steps, goal); err != nil {
		return fmt.Errorf("failed to record steps: %w", err)
	}
	if _, err := ctx.Garden.UpdateStreak(ctx.Ctx()); err != nil && !garden.IsIncomplete(err) {
		return fmt.Errorf("failed to update streak: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "✓ Recorded %s steps for %s\n", cli.FormatSteps(c.Steps), c.Date)
	return nil
}

type AddCmd struct {
	Delta int `arg:"" help:"Steps to add to today's count."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if c.Delta <= 0 {
		return fmt.Errorf("steps to add must be positive, got %d", c.Delta)
	}

	t := ctx.NewTracker()
	if err := t.Start(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to load today's steps: %w", err)
	}
	before := t.State()
	if err := t.Add(ctx.Ctx(), c.Delta); err != nil {
		return fmt.Errorf("failed to record steps: %w", err)
	}
	return printProgress(ctx, before.GoalReached, t.State())
}
