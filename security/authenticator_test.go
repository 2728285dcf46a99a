package security

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktally.com/worktally/core"
)

func newTestUsers(t *testing.T) *core.UserRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dm, err := core.New(sqlite.Open(dsn), 1, core.LogLevelSilent)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })
	require.NoError(t, dm.Migrate(context.Background(), &core.User{}))
	return core.NewUserRepository(dm)
}

func newTestAuthenticatorWith(t *testing.T, users Users) *Authenticator {
	t.Helper()
	wechat := NewWechatProvider("app", "secret")
	wechat.BaseURL = newWechatServer(t).URL
	return NewAuthenticator(users, NewTokens([]byte("secret"), time.Hour), wechat)
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	return newTestAuthenticatorWith(t, newTestUsers(t))
}

// staleUsers misses rows another request has just written.
type staleUsers struct {
	Users
	externalMisses int
}

func (s *staleUsers) FindUserByUsername(ctx context.Context, username string) (*core.User, error) {
	return nil, nil
}

func (s *staleUsers) FindUserByExternalID(ctx context.Context, provider string, externalID string) (*core.User, error) {
	if s.externalMisses > 0 {
		s.externalMisses--
		return nil, nil
	}
	return s.Users.FindUserByExternalID(ctx, provider, externalID)
}

func TestAuthenticatorLocal(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthenticator(t)

	session, err := auth.Register(ctx, LocalCredential("alice", "secret123"))
	require.NoError(t, err)
	require.NotNil(t, session.User)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "alice", *session.User.Username)
	assert.NotEqual(t, "secret123", *session.User.PasswordHash)

	tests := []struct {
		name    string
		cred    Credential
		wantErr error
	}{
		{name: "Login", cred: LocalCredential("alice", "secret123")},
		{name: "Wrong password", cred: LocalCredential("alice", "wrong-password"), wantErr: ErrInvalidCredentials},
		{name: "Unknown user", cred: LocalCredential("bob", "secret123"), wantErr: ErrInvalidCredentials},
		{name: "Missing password", cred: LocalCredential("alice", ""), wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := auth.Login(ctx, tt.cred)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, session.User.ID, s.User.ID)
		})
	}

	t.Run("Duplicate username", func(t *testing.T) {
		_, err := auth.Register(ctx, LocalCredential("alice", "another1"))
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("Weak password", func(t *testing.T) {
		_, err := auth.Register(ctx, LocalCredential("carol", "123"))
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("Verify", func(t *testing.T) {
		user, err := auth.Verify(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, session.User.ID, user.ID)

		_, err = auth.Verify(ctx, "garbage")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthenticatorExternal(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthenticator(t)

	first, err := auth.Login(ctx, ExternalCredential(core.ProviderWechat, "good"))
	require.NoError(t, err)
	assert.Equal(t, core.ProviderWechat, first.User.Provider)
	assert.Equal(t, "openid-1", *first.User.ExternalID)
	assert.JSONEq(t, `{"openid":"openid-1"}`, string(first.User.Attributes))

	again, err := auth.Login(ctx, ExternalCredential(core.ProviderWechat, "good"))
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	_, err = auth.Register(ctx, ExternalCredential(core.ProviderWechat, "good"))
	assert.ErrorIs(t, err, ErrAccountExists)

	registered, err := auth.Register(ctx, ExternalCredential(core.ProviderWechat, "good-2"))
	require.NoError(t, err)
	assert.NotEqual(t, first.User.ID, registered.User.ID)

	_, err = auth.Login(ctx, ExternalCredential(core.ProviderWechat, "bad"))
	assert.ErrorIs(t, err, ErrExternalAuth)

	_, err = auth.Login(ctx, ExternalCredential(core.ProviderOAuth, "good"))
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = auth.Login(ctx, ExternalCredential(core.ProviderWechat, ""))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticatorConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	users := newTestUsers(t)

	first, err := newTestAuthenticatorWith(t, users).Login(ctx, ExternalCredential(core.ProviderWechat, "good"))
	require.NoError(t, err)

	stale := &staleUsers{Users: users}
	auth := newTestAuthenticatorWith(t, stale)

	_, err = auth.Register(ctx, LocalCredential("alice", "secret123"))
	require.NoError(t, err)

	t.Run("Username taken by a concurrent register", func(t *testing.T) {
		_, err := auth.Register(ctx, LocalCredential("alice", "another1"))
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("External account created by a concurrent register", func(t *testing.T) {
		stale.externalMisses = 1
		_, err := auth.Register(ctx, ExternalCredential(core.ProviderWechat, "good"))
		assert.ErrorIs(t, err, ErrAccountExists)
	})

	t.Run("External account created by a concurrent login", func(t *testing.T) {
		stale.externalMisses = 1
		session, err := auth.Login(ctx, ExternalCredential(core.ProviderWechat, "good"))
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, session.User.ID)
	})
}
