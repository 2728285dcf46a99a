package utils

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DateLayout is the calendar-day format used for record keys and API payloads.
const DateLayout = "2006-01-02"

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayKey formats the calendar day of t in loc, e.g. "2024-03-15".
func DayKey(t time.Time, loc *time.Location) string {
	return StartOfDay(t, loc).Format(DateLayout)
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-MM-dd", s)
	}
	return t, nil
}

func MustParseDate(dateStr string) time.Time {
	t, _ := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	return t
}

// LoadLocation resolves an IANA zone name or "Local". An empty name is Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// MonthRange returns the first and last day of a "yyyy-MM" month in loc.
func MonthRange(month string, loc *time.Location) (time.Time, time.Time, error) {
	first, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected yyyy-MM", month)
	}
	return first, first.AddDate(0, 1, -1), nil
}
