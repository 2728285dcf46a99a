package core

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrAlreadyClockedIn      = errors.New("already clocked in today")
	ErrNoClockInRecord       = errors.New("no clock-in record found for today")
	ErrAlreadyClockedOut     = errors.New("already clocked out today")
	ErrInvalidMetricDivision = errors.New("work statistics require non-zero rated and actual work hours")
	ErrInvalidMetric         = errors.New("metric must be hourlyRate or workHours")
	ErrInvalidDateRange      = errors.New("start date must not be after end date")
)
