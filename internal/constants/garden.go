package constants

const (
	// StreakLookbackDays bounds how far back the streak walk looks. A streak can
	// never be reported above this value.
	StreakLookbackDays = 30

	// BloomStreak is the streak length at which the plant blooms and a bloomed
	// plant is added to the collection.
	BloomStreak = 7

	BloomedPlantIDPrefix = "plant_"
)
