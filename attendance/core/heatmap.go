package core

import (
	"context"
	"fmt"
	"iter"
	"time"

	"worktally.com/worktally/attendance/model"
	"worktally.com/worktally/utils"
)

type Metric string

const (
	MetricHourlyRate Metric = "hourlyRate"
	MetricWorkHours  Metric = "workHours"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricHourlyRate, MetricWorkHours:
		return Metric(s), nil
	}
	return "", ErrInvalidMetric
}

// value returns the derived field selected by m, or nil while the record is open.
func (m Metric) value(r *model.ClockRecord) *float64 {
	if m == MetricHourlyRate {
		return r.ActualHourlyRate
	}
	return r.ActualWorkHours
}

type HeatmapPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// HeatmapSeries yields points in ascending date order. It can be ranged over
// any number of times.
type HeatmapSeries iter.Seq[HeatmapPoint]

// Collect drains the series into a slice, never nil.
func (s HeatmapSeries) Collect() []HeatmapPoint {
	points := []HeatmapPoint{}
	for p := range s {
		points = append(points, p)
	}
	return points
}

// Aggregator projects clock records over a date range into chart series.
type Aggregator struct {
	records  ClockRecordStore
	location *time.Location
}

func NewAggregator(records ClockRecordStore, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{records: records, location: loc}
}

// Records returns the records of the inclusive day range [start, end].
func (a *Aggregator) Records(ctx context.Context, userID string, start, end time.Time) ([]model.ClockRecord, error) {
	startKey := utils.DayKey(start, a.location)
	endKey := utils.DayKey(end, a.location)
	if startKey > endKey {
		return nil, ErrInvalidDateRange
	}

	records, err := a.records.FindByUserAndDateRange(ctx, userID, startKey, endKey)
	if err != nil {
		return nil, fmt.Errorf("failed to find clock records: %w", err)
	}
	return records, nil
}

// GetHeatmapData returns one point per completed day in [start, end]. Days that
// were clocked in but never clocked out are left out of the series.
func (a *Aggregator) GetHeatmapData(ctx context.Context, userID string, start, end time.Time, metric Metric) (HeatmapSeries, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}

	records, err := a.Records(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return func(yield func(HeatmapPoint) bool) {
		for i := range records {
			v := metric.value(&records[i])
			if v == nil {
				continue
			}
			if !yield(HeatmapPoint{Date: records[i].Date, Value: *v}) {
				return
			}
		}
	}, nil
}
