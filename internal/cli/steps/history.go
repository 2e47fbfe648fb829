package steps

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/metrics"
	"github.com/julianstephens/steplog/internal/utils"
)

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	days, err := ctx.Days.GetLastNDays(ctx.Ctx(), constants.WeekDays)
	if err != nil {
		fmt.Fprintf(ctx.Stdout(), "⚠ Some days could not be read: %v\n\n", err)
	}

	today := ctx.Today()
	scale := cli.ChartScale(days)
	w := ctx.Stdout()

	fmt.Fprintln(w, "Last 7 days:")
	fmt.Fprintln(w)
	total := 0
	for _, d := range days {
		mark := " "
		if d.GoalReached {
			mark = "✓"
		}
		label := utils.DayOfWeek(d.Date)
		if d.Date == today {
			label = "Today"
		}
		fmt.Fprintf(w, "  %-5s %s %8s %s\n", label, cli.Bar(d.Steps, scale, barWidth), cli.FormatSteps(d.Steps), mark)
		total += d.Steps
	}
	fmt.Fprintf(w, "\n  Total: %s steps  Average: %s steps/day\n",
		cli.FormatSteps(total), cli.FormatSteps(total/constants.WeekDays))
	return nil
}

type HistoryCmd struct {
	Limit int `help:"Maximum number of days to show." default:"30"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	days, err := ctx.Days.GetHistoricalData(ctx.Ctx(), c.Limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(days) == 0 {
		fmt.Fprintln(ctx.Stdout(), "No activity recorded yet.")
		return nil
	}

	today := ctx.Today()
	tw := table.NewWriter()
	tw.SetOutputMirror(ctx.Stdout())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Date", "Steps", "Goal", "% of Goal", "Distance", "Calories", ""})
	for _, d := range days {
		mark := ""
		if d.GoalReached {
			mark = "✓"
		}
		tw.AppendRow(table.Row{
			utils.FormatDate(d.Date, today),
			cli.FormatSteps(d.Steps),
			cli.FormatSteps(d.Goal),
			fmt.Sprintf("%d%%", metrics.GoalPercent(d.Steps, d.Goal)),
			cli.FormatDistance(d.Distance),
			d.Calories,
			mark,
		})
	}
	tw.Render()
	return nil
}

type PruneCmd struct {
	Keep *int `help:"Number of most recent days to keep. Defaults to retention_days from the config."`
}

func (c *PruneCmd) Run(ctx *cli.Context) error {
	keep := ctx.Config.RetentionDays
	if c.Keep != nil {
		keep = *c.Keep
	}
	if keep < 0 {
		return fmt.Errorf("keep must not be negative, got %d", keep)
	}
	if keep == 0 {
		fmt.Fprintln(ctx.Stdout(), "Retention is disabled; nothing pruned.")
		return nil
	}

	removed, err := ctx.Days.Prune(ctx.Ctx(), keep)
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}
	fmt.Fprintf(ctx.Stdout(), "✓ Removed %d day record(s) older than %d day(s)\n", removed, keep)
	return nil
}
