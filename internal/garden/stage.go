package garden

import (
	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/models"
)

// PlantStage maps a streak length to its growth stage.
func PlantStage(streak int) models.PlantStage {
	switch {
	case streak <= 0:
		return models.StageEmpty
	case streak == 1:
		return models.StageSprout
	case streak == 2:
		return models.StageStem
	case streak <= 4:
		return models.StageFuller
	case streak <= 6:
		return models.StageBud
	default:
		return models.StageBloom
	}
}

var messages = []string{
	"Start your journey! Meet your goal to plant a seed.",
	"A tiny sprout appears! Keep going!",
	"Your plant is growing! 5 more days to bloom.",
	"Looking good! 4 more days until it blooms.",
	"Almost there! 3 more days to see the flower.",
	"A bud is forming! 2 more days!",
	"So close! Just 1 more day until it blooms!",
}

const bloomMessage = "Beautiful! Your flower is in full bloom!"

// MotivationalMessage returns the garden caption for a streak length.
func MotivationalMessage(streak int) string {
	if streak < 0 {
		streak = 0
	}
	if streak < len(messages) {
		return messages[streak]
	}
	return bloomMessage
}

// DaysUntilBloom is how many more goal days the plant needs, never negative.
func DaysUntilBloom(streak int) int {
	if streak >= constants.BloomStreak {
		return 0
	}
	if streak < 0 {
		return constants.BloomStreak
	}
	return constants.BloomStreak - streak
}
