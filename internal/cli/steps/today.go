package steps

import (
	"fmt"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/garden"
	"github.com/julianstephens/steplog/internal/metrics"
	"github.com/julianstephens/steplog/internal/tracker"
)

const barWidth = 30

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()

	goal, err := ctx.Goals.Get(ctx.Ctx())
	if err != nil {
		fmt.Fprintf(ctx.Stdout(), "⚠ Could not read daily goal, using %s\n", cli.FormatSteps(goal))
	}

	steps := 0
	record, ok, err := ctx.Days.GetDayData(ctx.Ctx(), today)
	if err != nil {
		fmt.Fprintf(ctx.Stdout(), "⚠ Could not read today's record: %v\n", err)
	}
	if ok {
		steps = record.Steps
		goal = record.Goal
	}

	streak, err := ctx.Garden.GetStreakData(ctx.Ctx())
	if err != nil {
		fmt.Fprintf(ctx.Stdout(), "⚠ Could not read streak: %v\n", err)
	}

	w := ctx.Stdout()
	fmt.Fprintf(w, "Today (%s)\n\n", today)
	fmt.Fprintf(w, "  %s  %d%%\n", cli.Bar(steps, goal, barWidth), metrics.GoalPercent(steps, goal))
	fmt.Fprintf(w, "  Steps:     %s / %s\n", cli.FormatSteps(steps), cli.FormatSteps(goal))
	fmt.Fprintf(w, "  Distance:  %s\n", cli.FormatDistance(metrics.CalculateDistance(steps)))
	fmt.Fprintf(w, "  Calories:  %d\n", metrics.CalculateCalories(steps))
	fmt.Fprintf(w, "  Streak:    %d day(s)\n", streak.CurrentStreak)
	if steps >= goal {
		fmt.Fprintln(w, "\n🎉 Goal reached!")
	} else {
		fmt.Fprintf(w, "\n%s steps to go.\n", cli.FormatSteps(goal-steps))
	}
	return nil
}

// printProgress reports the count after an update, announcing the goal the
// first time it is crossed today.
func printProgress(ctx *cli.Context, wasReached bool, st tracker.State) error {
	w := ctx.Stdout()
	fmt.Fprintf(w, "✓ %s / %s steps (%d%%)\n",
		cli.FormatSteps(st.Steps), cli.FormatSteps(st.Goal), metrics.GoalPercent(st.Steps, st.Goal))

	if st.GoalReached && !wasReached {
		fmt.Fprintln(w, "🎉 "+tracker.GoalReachedMessage)
		streak, err := ctx.Garden.GetStreakData(ctx.Ctx())
		if err != nil && !garden.IsIncomplete(err) {
			return nil
		}
		fmt.Fprintf(w, "   Streak: %d day(s)\n", streak.CurrentStreak)
		if streak.CurrentStreak == constants.BloomStreak {
			fmt.Fprintln(w, "🌸 "+tracker.BloomMessage)
		}
	}
	return nil
}
