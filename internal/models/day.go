package models

// DayRecord is the stored activity summary for one calendar day.
type DayRecord struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Steps       int     `json:"steps"`
	Goal        int     `json:"goal"`
	Distance    float64 `json:"distance"` // miles, 1 decimal
	Calories    int     `json:"calories"`
	GoalReached bool    `json:"goalReached"`
}

// EmptyDay is the zero-filled record used for days with no stored data.
func EmptyDay(date string, goal int) DayRecord {
	return DayRecord{
		Date: date,
		Goal: goal,
	}
}
