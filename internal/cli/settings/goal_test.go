package settings

import (
	"strings"
	"testing"

	"github.com/julianstephens/steplog/internal/cli/clitest"
)

func TestGoalSetCmd(t *testing.T) {
	tests := []struct {
		name    string
		goal    int
		wantErr bool
	}{
		{"minimum", 1, false},
		{"maximum", 100000, false},
		{"typical", 8000, false},
		{"zero", 0, true},
		{"too large", 100001, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := clitest.New(t, "2024-03-10")

			err := (&GoalSetCmd{Goal: tt.goal}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GoalSetCmd.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			got, _ := ctx.Goals.Get(ctx.Ctx())
			if tt.wantErr {
				if got != 10000 {
					t.Errorf("rejected goal changed stored goal to %d", got)
				}
				return
			}
			if got != tt.goal {
				t.Errorf("stored goal = %d, want %d", got, tt.goal)
			}
			if !strings.Contains(out.String(), "✓ Daily goal set to") {
				t.Errorf("unexpected output: %q", out.String())
			}
		})
	}
}

func TestGoalGetCmd(t *testing.T) {
	ctx, out := clitest.New(t, "2024-03-10")

	if err := (&GoalGetCmd{}).Run(ctx); err != nil {
		t.Fatalf("GoalGetCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Daily goal: 10,000 steps") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := ctx.Goals.Set(ctx.Ctx(), 12500); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&GoalGetCmd{}).Run(ctx); err != nil {
		t.Fatalf("GoalGetCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Daily goal: 12,500 steps") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestParseGoal(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"12000", 12000, false},
		{" 12,000 ", 12000, false},
		{"100000", 100000, false},
		{"0", 0, true},
		{"100001", 0, true},
		{"lots", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseGoal(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGoal(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGoal(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSettingsCmd(t *testing.T) {
	ctx, out := clitest.New(t, "2024-03-10")
	ctx.Config.RetentionDays = 90

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("SettingsCmd.Run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"Timezone:              UTC", "Retention:             90 days", "Daily Goal:            10,000"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	ctx.Config.Store = "postgres://user@localhost/steplog"
	out.Reset()
	_ = (&SettingsCmd{}).Run(ctx)
	if strings.Contains(out.String(), "user@localhost") {
		t.Errorf("connection string leaked:\n%s", out.String())
	}
}
