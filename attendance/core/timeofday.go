package core

import (
	"fmt"
	"time"
)

// ParseTimeOfDay validates an "HH:MM" (or "HH:MM:SS") rated time and returns its offset from midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
}

// RatedHoursBetween is the length of the rated work window. A finish before the
// start is treated as a shift crossing midnight.
func RatedHoursBetween(start, finish string) (float64, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return 0, err
	}
	f, err := ParseTimeOfDay(finish)
	if err != nil {
		return 0, err
	}
	if f < s {
		f += 24 * time.Hour
	}
	return Round2((f - s).Hours()), nil
}
