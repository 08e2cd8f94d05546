package timeutil

import (
	"fmt"
	"math"
	"time"
)

// Shift and availability times-of-day travel as zero-padded "HH:MM"
// strings, so lexicographic order equals numeric order.

const (
	DayLayout   = "2006-01-02"
	ClockLayout = "15:04"
)

// Day returns the calendar day of t in the business timezone, represented
// canonically as UTC midnight. Normalizing through the wall clock, not
// the instant, keeps events near midnight on the intended business day.
func Day(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into the canonical UTC-midnight
// representation.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// ParseClock parses an "HH:MM" time-of-day into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidClock reports whether s is a well-formed zero-padded "HH:MM".
func ValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil && len(s) == 5
}

// Overlaps tests two half-open [start,end) intervals on the same day.
// [09:00,17:00) and [17:00,18:00) do not overlap.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && e1 > s2
}

// ClockOnDay materializes an "HH:MM" on a canonical business day as an
// instant in the business timezone.
func ClockOnDay(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	mins, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, loc), nil
}

// DiffMinutes returns the elapsed wall-clock minutes from a to b,
// rounded, never negative.
func DiffMinutes(a, b time.Time) int {
	mins := int(math.Round(b.Sub(a).Minutes()))
	if mins < 0 {
		return 0
	}
	return mins
}
