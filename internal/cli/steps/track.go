package steps

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/logger"
)

// TrackCmd feeds a running tracker from stdin, one integer per line. By
// default each line is a delta; with --total each line is the sensor's count
// since midnight.
type TrackCmd struct {
	Total bool `help:"Treat each line as the cumulative count for today instead of a delta."`
}

func (c *TrackCmd) Run(ctx *cli.Context) error {
	t := ctx.NewTracker()
	deltas := make(chan int)
	base := ctx.Ctx()

	if err := t.Start(base); err != nil {
		logger.Warn("Starting with an unreadable day record", "error", err)
	}

	// A blocked stdin read cannot be interrupted, so on cancellation this
	// goroutine stays in Scan until the process exits after Run returns.
	go func() {
		defer close(deltas)
		scanner := bufio.NewScanner(ctx.Stdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			n, err := strconv.Atoi(line)
			if err != nil {
				logger.Warn("Ignoring non-numeric input", "line", line)
				continue
			}
			if c.Total {
				if err := t.SetTotal(base, n); err != nil {
					logger.Error("Failed to record steps", "total", n, "error", err)
				}
				continue
			}
			select {
			case deltas <- n:
			case <-base.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error("Failed reading step input", "error", err)
		}
	}()

	if err := t.Run(base, deltas); err != nil {
		return fmt.Errorf("tracking stopped: %w", err)
	}

	st := t.State()
	fmt.Fprintf(ctx.Stdout(), "✓ %s: %s / %s steps\n", st.Date, cli.FormatSteps(st.Steps), cli.FormatSteps(st.Goal))
	return nil
}
