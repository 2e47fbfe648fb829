package steps

import (
	"strings"
	"testing"

	"github.com/julianstephens/steplog/internal/cli/clitest"
	"github.com/julianstephens/steplog/internal/tracker"
)

const day = "2024-03-10"

func TestRecordCmd(t *testing.T) {
	ctx, out := clitest.New(t, day)

	cmd := &RecordCmd{Steps: 5000}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("RecordCmd.Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "5,000 / 10,000 steps (50%)") {
		t.Errorf("unexpected output: %q", out.String())
	}
	record, ok, err := ctx.Days.GetDayData(ctx.Ctx(), day)
	if err != nil || !ok {
		t.Fatalf("GetDayData() = %v, %v", ok, err)
	}
	if record.Steps != 5000 || record.GoalReached {
		t.Errorf("stored record = %+v", record)
	}
}

func TestRecordCmdDroppingBelowGoalRefreshesStreak(t *testing.T) {
	ctx, _ := clitest.New(t, day)

	if err := (&RecordCmd{Steps: 12000}).Run(ctx); err != nil {
		t.Fatalf("RecordCmd.Run() error = %v", err)
	}
	if err := (&RecordCmd{Steps: 3000}).Run(ctx); err != nil {
		t.Fatalf("RecordCmd.Run() error = %v", err)
	}

	streak, err := ctx.Garden.GetStreakData(ctx.Ctx())
	if err != nil {
		t.Fatalf("GetStreakData() error = %v", err)
	}
	if streak.CurrentStreak != 0 || streak.LastCheckedDate != day {
		t.Errorf("streak = %+v, want 0 on %s", streak, day)
	}
}

func TestRecordCmdCrossingGoalUpdatesStreak(t *testing.T) {
	ctx, out := clitest.New(t, day)

	if err := (&RecordCmd{Steps: 12000}).Run(ctx); err != nil {
		t.Fatalf("RecordCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), tracker.GoalReachedMessage) {
		t.Errorf("expected goal message, got %q", out.String())
	}

	streak, err := ctx.Garden.GetStreakData(ctx.Ctx())
	if err != nil {
		t.Fatalf("GetStreakData() error = %v", err)
	}
	if streak.CurrentStreak != 1 || streak.LastCheckedDate != day {
		t.Errorf("streak = %+v, want 1 on %s", streak, day)
	}

	// Recording again the same day must not announce the goal twice.
	out.Reset()
	if err := (&RecordCmd{Steps: 13000}).Run(ctx); err != nil {
		t.Fatalf("RecordCmd.Run() error = %v", err)
	}
	if strings.Contains(out.String(), tracker.GoalReachedMessage) {
		t.Errorf("goal announced twice: %q", out.String())
	}
}

func TestRecordCmdBackfill(t *testing.T) {
	tests := []struct {
		name    string
		cmd     RecordCmd
		wantErr bool
	}{
		{"past day", RecordCmd{Steps: 8000, Date: "2024-03-08"}, false},
		{"future day", RecordCmd{Steps: 8000, Date: "2024-03-11"}, true},
		{"bad date", RecordCmd{Steps: 8000, Date: "03/08/2024"}, true},
		{"negative steps", RecordCmd{Steps: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.New(t, day)
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			record, ok, _ := ctx.Days.GetDayData(ctx.Ctx(), tt.cmd.Date)
			if !ok || record.Steps != tt.cmd.Steps {
				t.Errorf("backfilled record = %+v, %v", record, ok)
			}
		})
	}
}

func TestAddCmd(t *testing.T) {
	ctx, _ := clitest.New(t, day)

	if err := (&RecordCmd{Steps: 4000}).Run(ctx); err != nil {
		t.Fatalf("RecordCmd.Run() error = %v", err)
	}
	if err := (&AddCmd{Delta: 1500}).Run(ctx); err != nil {
		t.Fatalf("AddCmd.Run() error = %v", err)
	}
	if err := (&AddCmd{Delta: 0}).Run(ctx); err == nil {
		t.Error("AddCmd with zero delta should fail")
	}

	record, _, _ := ctx.Days.GetDayData(ctx.Ctx(), day)
	if record.Steps != 5500 {
		t.Errorf("steps = %d, want 5500", record.Steps)
	}
}

func TestTodayCmd(t *testing.T) {
	ctx, out := clitest.New(t, day)
	if err := ctx.Days.SaveDayData(ctx.Ctx(), day, 2500, 10000); err != nil {
		t.Fatal(err)
	}

	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("TodayCmd.Run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"2,500 / 10,000", "25%", "1.2 mi", "Calories:  100", "7,500 steps to go."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWeekCmd(t *testing.T) {
	ctx, out := clitest.New(t, day)
	_ = ctx.Days.SaveDayData(ctx.Ctx(), "2024-03-09", 11000, 10000)
	_ = ctx.Days.SaveDayData(ctx.Ctx(), day, 3000, 10000)

	if err := (&WeekCmd{}).Run(ctx); err != nil {
		t.Fatalf("WeekCmd.Run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Today") || !strings.Contains(got, "11,000 ✓") {
		t.Errorf("unexpected chart:\n%s", got)
	}
	if !strings.Contains(got, "Total: 14,000 steps") {
		t.Errorf("missing total:\n%s", got)
	}
}

func TestHistoryCmd(t *testing.T) {
	ctx, out := clitest.New(t, day)

	if err := (&HistoryCmd{Limit: 30}).Run(ctx); err != nil {
		t.Fatalf("HistoryCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No activity recorded yet.") {
		t.Errorf("expected empty message, got %q", out.String())
	}

	_ = ctx.Days.SaveDayData(ctx.Ctx(), "2024-03-09", 11000, 10000)
	_ = ctx.Days.SaveDayData(ctx.Ctx(), day, 3000, 10000)
	out.Reset()
	if err := (&HistoryCmd{Limit: 30}).Run(ctx); err != nil {
		t.Fatalf("HistoryCmd.Run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"Today", "Yesterday", "11,000", "110%"} {
		if !strings.Contains(got, want) {
			t.Errorf("history missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Today") > strings.Index(got, "Yesterday") {
		t.Error("history should list newest first")
	}
}

func TestPruneCmd(t *testing.T) {
	ctx, out := clitest.New(t, day)
	for _, d := range []string{"2024-03-01", "2024-03-08", "2024-03-09", day} {
		_ = ctx.Days.SaveDayData(ctx.Ctx(), d, 100, 10000)
	}

	if err := (&PruneCmd{}).Run(ctx); err != nil {
		t.Fatalf("PruneCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Retention is disabled") {
		t.Errorf("expected no-op message, got %q", out.String())
	}

	keep := 2
	out.Reset()
	if err := (&PruneCmd{Keep: &keep}).Run(ctx); err != nil {
		t.Fatalf("PruneCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Removed 2 day record(s)") {
		t.Errorf("unexpected output: %q", out.String())
	}

	days, _ := ctx.Days.AllDays(ctx.Ctx())
	if len(days) != 2 {
		t.Errorf("kept %d days, want 2", len(days))
	}
}

func TestTrackCmd(t *testing.T) {
	tests := []struct {
		name  string
		total bool
		input string
		want  int
	}{
		{"deltas", false, "100\n200\nabc\n\n300\n-50\n", 600},
		{"totals", true, "100\n5000\n4200\n", 4200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.New(t, day)
			ctx.In = strings.NewReader(tt.input)

			if err := (&TrackCmd{Total: tt.total}).Run(ctx); err != nil {
				t.Fatalf("TrackCmd.Run() error = %v", err)
			}
			record, ok, _ := ctx.Days.GetDayData(ctx.Ctx(), day)
			if !ok || record.Steps != tt.want {
				t.Errorf("steps = %d (ok=%v), want %d", record.Steps, ok, tt.want)
			}
		})
	}
}
