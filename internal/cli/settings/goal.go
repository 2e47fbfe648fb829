package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/validation"
)

type GoalGetCmd struct{}

func (c *GoalGetCmd) Run(ctx *cli.Context) error {
	goal, err := ctx.Goals.Get(ctx.Ctx())
	if err != nil {
		fmt.Fprintf(ctx.Stdout(), "⚠ Stored goal could not be read (%v); using the default.\n", err)
	}
	fmt.Fprintf(ctx.Stdout(), "Daily goal: %s steps\n", cli.FormatSteps(goal))
	return nil
}

type GoalSetCmd struct {
	Goal        int  `arg:"" optional:"" help:"New daily step goal (1-100,000)."`
	Interactive bool `short:"i" help:"Prompt for the goal."`
}

func (c *GoalSetCmd) Run(ctx *cli.Context) error {
	goal := c.Goal
	if c.Interactive {
		current, _ := ctx.Goals.Get(ctx.Ctx())
		v, err := promptGoal(current)
		if err != nil {
			return err
		}
		goal = v
	}

	if err := ctx.Goals.Set(ctx.Ctx(), goal); err != nil {
		return fmt.Errorf("failed to set goal: %w", err)
	}
	fmt.Fprintf(ctx.Stdout(), "✓ Daily goal set to %s steps\n", cli.FormatSteps(goal))
	return nil
}

// GoalForm builds the goal editor bound to value. Use ParseGoal on the
// result.
func GoalForm(value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily step goal").
				Description("Between 1 and 100,000 steps.").
				Value(value).
				Validate(func(s string) error {
					_, err := ParseGoal(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// ParseGoal parses user input such as "12000" or "12,000" into a valid goal.
func ParseGoal(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	goal, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("goal must be a whole number")
	}
	if err := validation.ValidateGoal(goal); err != nil {
		return 0, err
	}
	return goal, nil
}

func promptGoal(current int) (int, error) {
	value := strconv.Itoa(current)
	if err := GoalForm(&value).Run(); err != nil {
		return 0, err
	}
	return ParseGoal(value)
}
