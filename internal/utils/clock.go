package utils

import "time"

// Clock supplies the current time. Everything that needs "today" takes a Clock
// so tests can pin the date.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a SystemClock for the given IANA timezone ("Local" or
// empty means the system zone).
func NewSystemClock(timezone string) (SystemClock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return SystemClock{}, err
	}
	return SystemClock{Location: loc}, nil
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// FixedDay returns a FixedClock at noon UTC on the given YYYY-MM-DD day. It
// panics on a malformed key and is meant for tests and tooling.
func FixedDay(key string) FixedClock {
	t, err := ParseDateKey(key)
	if err != nil {
		panic(err)
	}
	return FixedClock{T: t.Add(12 * time.Hour)}
}

// Today returns the date key for the clock's current day.
func Today(c Clock) string {
	return DateKey(c.Now())
}
