package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktally.com/worktally/core"
)

func TestIdentityToken(t *testing.T) {
	username := "alice"
	user := &core.User{ID: "user-1", Username: &username, Provider: core.ProviderLocal}

	issued := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	tokens := NewTokens([]byte("secret"), time.Hour)
	tokens.now = func() time.Time { return issued }

	signed, expiresAt, err := tokens.CreateIdentityToken(user)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour), expiresAt)

	t.Run("Valid token", func(t *testing.T) {
		claims, err := tokens.ParseIdentityToken(signed)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "alice", claims.UniqueName)
		assert.Equal(t, core.ProviderLocal, claims.Provider)
		assert.Equal(t, TokenIssuer, claims.Issuer)
	})

	t.Run("Expired token", func(t *testing.T) {
		later := NewTokens([]byte("secret"), time.Hour)
		later.now = func() time.Time { return issued.Add(2 * time.Hour) }
		_, err := later.ParseIdentityToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokens([]byte("other"), time.Hour)
		other.now = tokens.now
		_, err := other.ParseIdentityToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Other signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, IdentityClaims{
			Identity: Identity{UserID: "user-1"},
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    TokenIssuer,
				ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
			},
		})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.ParseIdentityToken(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tokens.ParseIdentityToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokensFromBase64(t *testing.T) {
	tokens, err := NewTokensFromBase64(base64.StdEncoding.EncodeToString([]byte("secret")), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, tokens.ttl)

	_, err = NewTokensFromBase64("%%%", time.Hour)
	assert.Error(t, err)

	_, err = NewTokensFromBase64("", time.Hour)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
}
