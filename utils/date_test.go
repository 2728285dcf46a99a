package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	brisbane := time.FixedZone("UTC+10", 10*60*60)

	tests := []struct {
		name     string
		at       time.Time
		loc      *time.Location
		expected string
	}{
		{
			name:     "Same day in UTC",
			at:       time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			expected: "2024-03-15",
		},
		{
			name:     "Late UTC evening is next day in UTC+10",
			at:       time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC),
			loc:      brisbane,
			expected: "2024-03-16",
		},
		{
			name:     "Midnight stays on its own day",
			at:       time.Date(2024, 3, 15, 0, 0, 0, 0, brisbane),
			loc:      brisbane,
			expected: "2024-03-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayKey(tt.at, tt.loc))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2024, 3, 15, 17, 30, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), StartOfDay(at, time.UTC))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15", time.UTC)
	assert.NoError(t, err)
	assert.Equal(t, MustParseDate("2024-03-15"), d)

	_, err = ParseDate("15/03/2024", time.UTC)
	assert.Error(t, err)
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{name: "", expected: "Local"},
		{name: "Local", expected: "Local"},
		{name: "UTC", expected: "UTC"},
		{name: "Australia/Brisbane", expected: "Australia/Brisbane"},
		{name: "Australia/Brisbaen", wantErr: true},
		{name: "UTC+10", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, loc.String())
		})
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		month string
		first string
		last  string
	}{
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2023-12", "2023-12-01", "2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			first, last, err := MonthRange(tt.month, time.UTC)
			assert.NoError(t, err)
			assert.Equal(t, tt.first, first.Format(DateLayout))
			assert.Equal(t, tt.last, last.Format(DateLayout))
		})
	}

	_, _, err := MonthRange("March", time.UTC)
	assert.Error(t, err)
}
