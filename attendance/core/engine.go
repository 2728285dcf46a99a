package core

import (
	"context"
	"fmt"
	"time"

	"worktally.com/worktally/attendance/model"
	"worktally.com/worktally/core"
	"worktally.com/worktally/utils"
)

// ClockInResult echoes the clock-in time and the rated values captured with it.
// Rated values the profile left unset are reported as zero or "".
type ClockInResult struct {
	ClockInTime        time.Time `json:"clockInTime"`
	RatedWorkStartTime string    `json:"ratedWorkStartTime"`
	RatedWorkEndTime   string    `json:"ratedWorkEndTime"`
	RatedHourlyRate    float64   `json:"ratedHourlyRate"`
	RatedWorkHours     float64   `json:"ratedWorkHours"`
	RatedDailySalary   float64   `json:"ratedDailySalary"`
}

type ClockOutResult struct {
	ClockOutTime        time.Time `json:"clockOutTime"`
	ActualWorkHours     float64   `json:"actualWorkHours"`
	ExpectedDailySalary float64   `json:"expectedDailySalary"`
	ActualHourlyRate    float64   `json:"actualHourlyRate"`
}

// Engine runs the daily clock-in/clock-out lifecycle.
type Engine struct {
	users    UserProfiles
	records  ClockRecordStore
	location *time.Location
	now      func() time.Time
}

type EngineOption func(*Engine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the location whose midnight starts a new calendar day.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) { e.location = loc }
}

func NewEngine(users UserProfiles, records ClockRecordStore, opts ...EngineOption) *Engine {
	e := &Engine{
		users:    users,
		records:  records,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location is the calendar-day location used for record dates.
func (e *Engine) Location() *time.Location {
	return e.location
}

func (e *Engine) findUser(ctx context.Context, userID string) (*core.User, error) {
	user, err := e.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (e *Engine) ClockIn(ctx context.Context, userID string) (*ClockInResult, error) {
	user, err := e.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.now().In(e.location)
	record := &model.ClockRecord{
		UserID:             user.ID,
		Date:               utils.DayKey(now, e.location),
		ClockInTime:        now,
		RatedWorkStartTime: user.RatedWorkStartTime,
		RatedWorkEndTime:   user.RatedWorkEndTime,
		RatedHourlyRate:    user.RatedHourlyRate,
		RatedWorkHours:     user.RatedWorkHours,
		RatedDailySalary:   user.RatedDailySalary,
	}

	if err := e.records.Create(ctx, record); err != nil {
		return nil, err
	}

	return &ClockInResult{
		ClockInTime:        now,
		RatedWorkStartTime: utils.ValueOr(user.RatedWorkStartTime, ""),
		RatedWorkEndTime:   utils.ValueOr(user.RatedWorkEndTime, ""),
		RatedHourlyRate:    utils.ValueOr(user.RatedHourlyRate, 0),
		RatedWorkHours:     utils.ValueOr(user.RatedWorkHours, 0),
		RatedDailySalary:   utils.ValueOr(user.RatedDailySalary, 0),
	}, nil
}

func (e *Engine) ClockOut(ctx context.Context, userID string) (*ClockOutResult, error) {
	user, err := e.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.now().In(e.location)
	record, err := e.records.FindByUserAndDate(ctx, user.ID, utils.DayKey(now, e.location))
	if err != nil {
		return nil, fmt.Errorf("failed to find clock record: %w", err)
	}
	if record == nil {
		return nil, ErrNoClockInRecord
	}
	if record.ClockedOut() {
		return nil, ErrAlreadyClockedOut
	}

	stats, err := CalculateWorkStats(
		record.ClockInTime,
		now,
		utils.ValueOr(record.RatedDailySalary, 0),
		utils.ValueOr(record.RatedWorkHours, 0),
	)
	if err != nil {
		return nil, err
	}

	record.ClockOutTime = &now
	record.ActualWorkHours = &stats.ActualWorkHours
	record.ExpectedDailySalary = &stats.ExpectedDailySalary
	record.ActualHourlyRate = &stats.ActualHourlyRate

	if err := e.records.SaveClockOut(ctx, record); err != nil {
		return nil, err
	}

	return &ClockOutResult{
		ClockOutTime:        now,
		ActualWorkHours:     stats.ActualWorkHours,
		ExpectedDailySalary: stats.ExpectedDailySalary,
		ActualHourlyRate:    stats.ActualHourlyRate,
	}, nil
}

// GetTodayClockRecord returns nil without error when the user has not clocked in today.
func (e *Engine) GetTodayClockRecord(ctx context.Context, userID string) (*model.ClockRecord, error) {
	user, err := e.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	record, err := e.records.FindByUserAndDate(ctx, user.ID, utils.DayKey(e.now(), e.location))
	if err != nil {
		return nil, fmt.Errorf("failed to find clock record: %w", err)
	}
	return record, nil
}
