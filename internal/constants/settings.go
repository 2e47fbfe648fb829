package constants

import "time"

const (
	// Storage keys. Day records live under DayKeyPrefix + "YYYY-MM-DD".
	DayKeyPrefix      = "steplog_day_"
	DailyGoalKey      = "steplog_daily_goal"
	StreakKey         = "garden_streak"
	BloomedPlantsKey  = "garden_bloomed_plants"
	LastPlantStageKey = "garden_last_stage"

	// Goal bounds and defaults
	DefaultGoal = 10000
	MinGoal     = 1
	MaxGoal     = 100000

	// Metric conversion factors
	StrideLengthMeters = 0.762
	MetersPerMile      = 1609.34
	CaloriesPerStep    = 0.04

	// History defaults
	DefaultHistoryLimit = 30
	WeekDays            = 7

	// Tracker defaults
	DefaultSaveInterval = 30 * time.Second
	RolloverSchedule    = "0 0 * * *"

	// Settings defaults
	DefaultTimezone             = "Local"
	DefaultRetentionDays        = 0 // keep everything
	DefaultNotificationsEnabled = true
)
