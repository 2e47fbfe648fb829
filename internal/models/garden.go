package models

// StreakData is the cached streak. CurrentStreak is only trusted on
// LastCheckedDate.
type StreakData struct {
	CurrentStreak   int    `json:"currentStreak"`
	LastCheckedDate string `json:"lastCheckedDate"`
}

// PlantStage is the garden tier derived from the streak length.
type PlantStage string

const (
	StageEmpty  PlantStage = "empty"
	StageSprout PlantStage = "sprout"
	StageStem   PlantStage = "stem"
	StageFuller PlantStage = "fuller"
	StageBud    PlantStage = "bud"
	StageBloom  PlantStage = "bloom"
)

var stageOrder = []PlantStage{StageEmpty, StageSprout, StageStem, StageFuller, StageBud, StageBloom}

// Rank returns the position of the stage in growth order, or -1 if the stage
// is not recognised.
func (s PlantStage) Rank() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known stages.
func (s PlantStage) Valid() bool {
	return s.Rank() >= 0
}

// BloomedPlant is a collectible recorded the day a streak first reaches the
// bloom length.
type BloomedPlant struct {
	ID             string `json:"id"`
	BloomedDate    string `json:"bloomedDate"`
	StreakAchieved int    `json:"streakAchieved"`
}

// GrowthTransition reports a plant stage change that the UI should animate.
type GrowthTransition struct {
	ShouldAnimate bool       `json:"shouldAnimate"`
	PreviousStage PlantStage `json:"previousStage"`
	CurrentStage  PlantStage `json:"currentStage"`
}

// GardenSnapshot gathers everything the garden view renders.
type GardenSnapshot struct {
	Streak         StreakData
	Stage          PlantStage
	Message        string
	DaysUntilBloom int
	Bloomed        []BloomedPlant
	Transition     *GrowthTransition
}
