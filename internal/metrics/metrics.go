// Package metrics converts raw step counts into the derived figures shown
// alongside them.
package metrics

import (
	"math"

	"github.com/julianstephens/steplog/internal/constants"
)

// CalculateDistance estimates miles walked, rounded to one decimal place.
func CalculateDistance(steps int) float64 {
	if steps <= 0 {
		return 0
	}
	meters := float64(steps) * constants.StrideLengthMeters
	miles := meters / constants.MetersPerMile
	return math.Round(miles*10) / 10
}

// CalculateCalories estimates calories burned, rounded to the nearest integer.
func CalculateCalories(steps int) int {
	if steps <= 0 {
		return 0
	}
	return int(math.Round(float64(steps) * constants.CaloriesPerStep))
}

// GoalProgress is the fraction of the goal completed, capped at 1.
func GoalProgress(steps, goal int) float64 {
	if goal <= 0 || steps <= 0 {
		return 0
	}
	return math.Min(float64(steps)/float64(goal), 1)
}

// GoalPercent is the uncapped percentage of the goal completed.
func GoalPercent(steps, goal int) int {
	if goal <= 0 || steps <= 0 {
		return 0
	}
	return int(math.Round(float64(steps) / float64(goal) * 100))
}
