package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktally.com/worktally/core"
	"worktally.com/worktally/security"
)

func newUserRepository(t *testing.T) *core.UserRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dm, err := core.New(sqlite.Open(dsn), 1, core.LogLevelSilent)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })
	require.NoError(t, dm.Migrate(context.Background(), &core.User{}))
	return core.NewUserRepository(dm)
}

func TestImportUsers(t *testing.T) {
	ctx := context.Background()
	users := newUserRepository(t)
	require.NoError(t, users.CreateUser(ctx, &core.User{Username: ptr("carol")}))

	csv := `Username,Password,RatedWorkStartTime,RatedWorkEndTime,RatedDailySalary
alice,secret123,09:00,17:30,100
bob,secret456,,,
carol,secret789,,,
,,,,
`
	created, skipped, err := importUsers(ctx, users, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, skipped)

	alice, err := users.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.True(t, security.CheckPassword(*alice.PasswordHash, "secret123"))
	assert.Equal(t, "09:00", *alice.RatedWorkStartTime)
	assert.InDelta(t, 8.5, *alice.RatedWorkHours, 0.0001)
	assert.InDelta(t, 100.0, *alice.RatedDailySalary, 0.0001)

	bob, err := users.FindUserByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, bob)
	assert.Nil(t, bob.RatedWorkHours)
}

func TestImportUsersRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "Duplicate username", csv: "username,password\nalice,secret123\nalice,secret456\n"},
		{name: "Weak password", csv: "username,password\nalice,123\n"},
		{name: "Bad time", csv: "username,password,ratedWorkStartTime\nalice,secret123,9am\n"},
		{name: "Negative salary", csv: "username,password,ratedDailySalary\nalice,secret123,-5\n"},
		{name: "Ragged row", csv: "username,password\nalice\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newUserRepository(t)
			created, _, err := importUsers(context.Background(), users, strings.NewReader(tt.csv))
			assert.Error(t, err)
			assert.Zero(t, created)
		})
	}
}

func ptr[T any](v T) *T { return &v }
