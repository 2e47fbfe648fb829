package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/models"
)

// FormatSteps renders a step count with thousands separators ("10,000").
func FormatSteps(steps int) string {
	return humanize.Comma(int64(steps))
}

// FormatDistance renders miles with one decimal.
func FormatDistance(miles float64) string {
	return fmt.Sprintf("%.1f mi", miles)
}

// Bar draws a horizontal bar of at most width cells for value against scale.
func Bar(value, scale, width int) string {
	if width <= 0 {
		return ""
	}
	if scale <= 0 || value <= 0 {
		return strings.Repeat("░", width)
	}
	filled := value * width / scale
	if filled > width {
		filled = width
	}
	if filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// ChartScale is the value a week of bars is drawn against: the largest day or
// the goal, whichever is bigger.
func ChartScale(days []models.DayRecord) int {
	scale := 0
	for _, d := range days {
		if d.Steps > scale {
			scale = d.Steps
		}
		if d.Goal > scale {
			scale = d.Goal
		}
	}
	return scale
}

// StreakDots renders progress toward a bloom as filled and empty dots.
func StreakDots(streak int) string {
	filled := streak
	if filled > constants.BloomStreak {
		filled = constants.BloomStreak
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("●", filled) + strings.Repeat("○", constants.BloomStreak-filled)
}

var plantArt = map[models.PlantStage][]string{
	models.StageEmpty: {
		"       ",
		"       ",
		"       ",
		" ~~~~~ ",
	},
	models.StageSprout: {
		"       ",
		"       ",
		"   ,   ",
		" ~~|~~ ",
	},
	models.StageStem: {
		"       ",
		"   |   ",
		"  \\|   ",
		" ~~|~~ ",
	},
	models.StageFuller: {
		"   |   ",
		"  \\|/  ",
		"  \\|/  ",
		" ~~|~~ ",
	},
	models.StageBud: {
		"   o   ",
		"  \\|/  ",
		"  \\|/  ",
		" ~~|~~ ",
	},
	models.StageBloom: {
		"  @@@  ",
		"  \\|/  ",
		"  \\|/  ",
		" ~~|~~ ",
	},
}

// PlantArt returns the ASCII plant for a stage. Unknown stages draw as empty.
func PlantArt(stage models.PlantStage) []string {
	if art, ok := plantArt[stage]; ok {
		return art
	}
	return plantArt[models.StageEmpty]
}
