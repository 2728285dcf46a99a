package core

import (
	"math"
	"time"
)

// WorkStats are the figures derived when a user clocks out.
type WorkStats struct {
	ActualWorkHours     float64
	ExpectedDailySalary float64
	ActualHourlyRate    float64
}

// CalculateWorkStats derives the pay figures for a worked period.
//
// ExpectedDailySalary pays the rated daily salary in proportion to the hours
// actually worked. ActualHourlyRate is the rated daily salary spread over the
// hours actually worked, not the expected salary.
func CalculateWorkStats(clockIn, clockOut time.Time, ratedDailySalary, ratedWorkHours float64) (WorkStats, error) {
	worked := clockOut.Sub(clockIn)
	if worked <= 0 || ratedWorkHours == 0 {
		return WorkStats{}, ErrInvalidMetricDivision
	}

	actualWorkHours := worked.Hours()
	expectedDailySalary := (actualWorkHours / ratedWorkHours) * ratedDailySalary
	actualHourlyRate := ratedDailySalary / actualWorkHours

	return WorkStats{
		ActualWorkHours:     hundredthsOfHour(worked),
		ExpectedDailySalary: Round2(expectedDailySalary),
		ActualHourlyRate:    Round2(actualHourlyRate),
	}, nil
}

// hundredthsOfHour rounds a duration half-up to two decimal hours using
// integer milliseconds, so whole-second ties like 1.005h round up.
func hundredthsOfHour(d time.Duration) float64 {
	return math.Round(float64(d.Milliseconds())/36000) / 100
}

// Round2 rounds half-up to two decimal places. The scaled value is nudged by a
// relative 1e-12 so decimal ties stored just below the half, like 1.005, round up.
func Round2(v float64) float64 {
	return math.Round(v*100*(1+1e-12)) / 100
}
