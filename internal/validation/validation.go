package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/metrics"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDate      ConflictType = "invalid_date"
	ConflictFutureDay        ConflictType = "future_day"
	ConflictDerivedMismatch  ConflictType = "derived_mismatch"
	ConflictInvalidGoal      ConflictType = "invalid_goal"
	ConflictDuplicateBloom   ConflictType = "duplicate_bloom"
	ConflictDuplicatePlantID ConflictType = "duplicate_plant_id"
)

// Conflict represents a problem found in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// ValidateGoal checks a daily step goal is within the accepted range.
func ValidateGoal(goal int) error {
	if goal < constants.MinGoal || goal > constants.MaxGoal {
		return fmt.Errorf("please enter a goal between %d and %s steps", constants.MinGoal, "100,000")
	}
	return nil
}

// ValidateSteps rejects negative step counts.
func ValidateSteps(steps int) error {
	if steps < 0 {
		return fmt.Errorf("step count cannot be negative: %d", steps)
	}
	return nil
}

// ValidateDateKey checks the string is a YYYY-MM-DD day key.
func ValidateDateKey(key string) error {
	if _, err := utils.ParseDateKey(key); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", key)
	}
	return nil
}

// ValidateDays checks stored day records for bad dates, days in the future,
// non-positive goals, and derived fields that disagree with the step count.
func ValidateDays(days []models.DayRecord, today string) ValidationResult {
	var result ValidationResult

	sorted := make([]models.DayRecord, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	for _, d := range sorted {
		if err := ValidateDateKey(d.Date); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Day record has invalid date %q", d.Date),
				Date:        d.Date,
			})
			continue
		}
		if d.Date > today {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureDay,
				Description: fmt.Sprintf("Day record %s is after today (%s)", d.Date, today),
				Date:        d.Date,
			})
		}
		if d.Goal <= 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidGoal,
				Description: fmt.Sprintf("Day record %s has non-positive goal %d", d.Date, d.Goal),
				Date:        d.Date,
			})
		}
		if math.Abs(d.Distance-metrics.CalculateDistance(d.Steps)) > 1e-9 ||
			d.Calories != metrics.CalculateCalories(d.Steps) ||
			d.GoalReached != (d.Goal > 0 && d.Steps >= d.Goal) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDerivedMismatch,
				Description: fmt.Sprintf("Day record %s has derived fields that do not match %d steps", d.Date, d.Steps),
				Date:        d.Date,
			})
		}
	}

	return result
}

// ValidateBloomed checks the bloomed plant collection holds at most one plant
// per day and no repeated ids.
func ValidateBloomed(plants []models.BloomedPlant) ValidationResult {
	var result ValidationResult
	seenDates := make(map[string]bool)
	seenIDs := make(map[string]bool)

	for _, p := range plants {
		if seenDates[p.BloomedDate] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateBloom,
				Description: fmt.Sprintf("More than one bloomed plant recorded on %s", p.BloomedDate),
				Date:        p.BloomedDate,
			})
		}
		if seenIDs[p.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicatePlantID,
				Description: fmt.Sprintf("Bloomed plant id %q appears more than once", p.ID),
				Date:        p.BloomedDate,
			})
		}
		seenDates[p.BloomedDate] = true
		seenIDs[p.ID] = true
	}

	return result
}
