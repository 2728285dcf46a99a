package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktally.com/worktally/utils"
)

// seedWeek clocks the fixture user in on 2024-03-11, 12 and 13 and out on the 11th and 13th only.
func seedWeek(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	days := []struct {
		date     time.Time
		workedTo *time.Time
	}{
		{date: time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), workedTo: ptr(time.Date(2024, 3, 13, 17, 0, 0, 0, time.UTC))},
		{date: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), workedTo: ptr(time.Date(2024, 3, 11, 19, 0, 0, 0, time.UTC))},
		{date: time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)},
	}
	for _, d := range days {
		f.clock.Set(d.date)
		_, err := f.engine.ClockIn(ctx, f.user.ID)
		require.NoError(t, err)
		if d.workedTo != nil {
			f.clock.Set(*d.workedTo)
			_, err = f.engine.ClockOut(ctx, f.user.ID)
			require.NoError(t, err)
		}
	}
}

func TestGetHeatmapData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedWeek(t, f)
	agg := NewAggregator(f.store, time.UTC)

	start := utils.MustParseDate("2024-03-10")
	end := utils.MustParseDate("2024-03-16")

	t.Run("Work hours skip open days", func(t *testing.T) {
		series, err := agg.GetHeatmapData(ctx, f.user.ID, start, end, MetricWorkHours)
		require.NoError(t, err)
		assert.Equal(t, []HeatmapPoint{
			{Date: "2024-03-11", Value: 10},
			{Date: "2024-03-13", Value: 8},
		}, series.Collect())
	})

	t.Run("Hourly rate", func(t *testing.T) {
		series, err := agg.GetHeatmapData(ctx, f.user.ID, start, end, MetricHourlyRate)
		require.NoError(t, err)
		assert.Equal(t, []HeatmapPoint{
			{Date: "2024-03-11", Value: 10},
			{Date: "2024-03-13", Value: 12.5},
		}, series.Collect())
	})

	t.Run("Series can be ranged more than once", func(t *testing.T) {
		series, err := agg.GetHeatmapData(ctx, f.user.ID, start, end, MetricWorkHours)
		require.NoError(t, err)
		assert.Equal(t, series.Collect(), series.Collect())

		// stopping early yields only the first point
		var first []HeatmapPoint
		for p := range series {
			first = append(first, p)
			break
		}
		assert.Equal(t, []HeatmapPoint{{Date: "2024-03-11", Value: 10}}, first)
	})

	t.Run("Range bounds are inclusive", func(t *testing.T) {
		series, err := agg.GetHeatmapData(ctx, f.user.ID, utils.MustParseDate("2024-03-13"), utils.MustParseDate("2024-03-13"), MetricWorkHours)
		require.NoError(t, err)
		assert.Equal(t, []HeatmapPoint{{Date: "2024-03-13", Value: 8}}, series.Collect())
	})

	t.Run("Empty range", func(t *testing.T) {
		series, err := agg.GetHeatmapData(ctx, f.user.ID, utils.MustParseDate("2023-01-01"), utils.MustParseDate("2023-01-31"), MetricWorkHours)
		require.NoError(t, err)
		assert.Equal(t, []HeatmapPoint{}, series.Collect())
	})

	t.Run("Unknown metric", func(t *testing.T) {
		_, err := agg.GetHeatmapData(ctx, f.user.ID, start, end, Metric("salary"))
		assert.ErrorIs(t, err, ErrInvalidMetric)
	})

	t.Run("Reversed range", func(t *testing.T) {
		_, err := agg.GetHeatmapData(ctx, f.user.ID, end, start, MetricWorkHours)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("hourlyRate")
	assert.NoError(t, err)
	assert.Equal(t, MetricHourlyRate, m)

	m, err = ParseMetric("workHours")
	assert.NoError(t, err)
	assert.Equal(t, MetricWorkHours, m)

	_, err = ParseMetric("HourlyRate")
	assert.ErrorIs(t, err, ErrInvalidMetric)
}
