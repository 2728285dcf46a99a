package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"worktally.com/worktally/attendance/model"
	"worktally.com/worktally/core"
)

func newTestManager(t *testing.T) *core.DatabaseManager {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dm, err := core.New(sqlite.Open(dsn), 1, core.LogLevelSilent)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })
	require.NoError(t, dm.Migrate(context.Background(), &core.User{}, &model.ClockRecord{}))
	return dm
}

func ptr[T any](v T) *T { return &v }

func createUser(t *testing.T, dm *core.DatabaseManager, user *core.User) *core.User {
	t.Helper()
	require.NoError(t, core.NewUserRepository(dm).CreateUser(context.Background(), user))
	return user
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Set(t time.Time) { c.now = t }

type fixture struct {
	dm     *core.DatabaseManager
	store  *GormClockRecordStore
	engine *Engine
	clock  *testClock
	user   *core.User
}

func newFixture(t *testing.T) *fixture {
	dm := newTestManager(t)
	clock := &testClock{now: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	store := NewGormClockRecordStore(dm)
	user := createUser(t, dm, &core.User{
		Username:           ptr("alice"),
		RatedWorkStartTime: ptr("09:00"),
		RatedWorkEndTime:   ptr("17:00"),
		RatedHourlyRate:    ptr(12.5),
		RatedWorkHours:     ptr(8.0),
		RatedDailySalary:   ptr(100.0),
	})
	engine := NewEngine(core.NewUserRepository(dm), store, WithClock(clock.Now), WithLocation(time.UTC))
	return &fixture{dm: dm, store: store, engine: engine, clock: clock, user: user}
}

func (f *fixture) countRecords(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.dm.DB.Model(&model.ClockRecord{}).Count(&n).Error)
	return n
}
