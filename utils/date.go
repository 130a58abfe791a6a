package utils

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

var BrisbaneTZ = time.FixedZone("UTC+10", 10*60*60)

// LoadLocation resolves an IANA zone name, falling back to Brisbane time
// when the name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return BrisbaneTZ, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// DayOf returns the calendar day of t in loc formatted as yyyy-MM-dd.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// StartOfDay parses a yyyy-MM-dd day as midnight in loc.
func StartOfDay(day string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, day, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-MM-dd", day)
	}
	return t, nil
}

// EndOfDay is the last second of the given day in loc.
func EndOfDay(day string, loc *time.Location) (time.Time, error) {
	start, err := StartOfDay(day, loc)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, 1).Add(-time.Second), nil
}

// ParseTimeOnDate combines a base date with a time string (e.g. "08:00")
func ParseTimeOnDate(baseDate time.Time, timeStr string) (time.Time, error) {
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		t, err = time.Parse("15:04:05", timeStr)
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), t.Hour(), t.Minute(), t.Second(), 0, baseDate.Location()), nil
}
