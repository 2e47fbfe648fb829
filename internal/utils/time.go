package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/steplog/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DateKey formats t as a day key (YYYY-MM-DD) in t's own location.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDateKey parses a YYYY-MM-DD day key into midnight UTC of that day.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(constants.DateFormat, key)
}

// AddDays shifts a day key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, n)), nil
}

// LastNDayKeys returns the n day keys ending at today inclusive, oldest first.
func LastNDayKeys(today string, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	end, err := ParseDateKey(today)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, DateKey(end.AddDate(0, 0, -i)))
	}
	return keys, nil
}

// FormatDate renders a day key relative to today: "Today", "Yesterday", or
// e.g. "Monday, Oct 12". Unparseable keys are returned unchanged.
func FormatDate(key, today string) string {
	if key == today {
		return "Today"
	}
	if yesterday, err := AddDays(today, -1); err == nil && key == yesterday {
		return "Yesterday"
	}
	t, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return t.Format("Monday, Jan 2")
}

// DayOfWeek returns the short weekday name ("Mon") for a day key.
func DayOfWeek(key string) string {
	t, err := ParseDateKey(key)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}
