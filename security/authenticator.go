package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"worktally.com/worktally/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrAccountExists      = errors.New("account already registered")
)

// Users is the user storage used by the Authenticator.
type Users interface {
	FindUserByID(ctx context.Context, id string) (*core.User, error)
	FindUserByUsername(ctx context.Context, username string) (*core.User, error)
	FindUserByExternalID(ctx context.Context, provider string, externalID string) (*core.User, error)
	CreateUser(ctx context.Context, user *core.User) error
}

type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *core.User `json:"user"`
}

type Authenticator struct {
	users     Users
	tokens    *Tokens
	providers map[string]ExternalProvider
}

func NewAuthenticator(users Users, tokens *Tokens, providers ...ExternalProvider) *Authenticator {
	a := &Authenticator{
		users:     users,
		tokens:    tokens,
		providers: map[string]ExternalProvider{},
	}
	for _, p := range providers {
		a.providers[p.Name()] = p
	}
	return a
}

func (a *Authenticator) Register(ctx context.Context, cred Credential) (*Session, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	if cred.IsLocal() {
		return a.registerLocal(ctx, cred)
	}

	ext, err := a.exchange(ctx, cred)
	if err != nil {
		return nil, err
	}
	existing, err := a.users.FindUserByExternalID(ctx, ext.Provider, ext.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}
	user, err := a.createExternalUser(ctx, ext)
	if err != nil {
		return nil, err
	}
	return a.session(user)
}

func (a *Authenticator) registerLocal(ctx context.Context, cred Credential) (*Session, error) {
	username := strings.TrimSpace(cred.Username)
	existing, err := a.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(cred.Password)
	if err != nil {
		return nil, err
	}
	user := &core.User{
		Username:     &username,
		PasswordHash: &hash,
		Provider:     core.ProviderLocal,
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return a.session(user)
}

func (a *Authenticator) Login(ctx context.Context, cred Credential) (*Session, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}

	if cred.IsLocal() {
		user, err := a.users.FindUserByUsername(ctx, strings.TrimSpace(cred.Username))
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		if user == nil || user.PasswordHash == nil || !CheckPassword(*user.PasswordHash, cred.Password) {
			return nil, ErrInvalidCredentials
		}
		return a.session(user)
	}

	ext, err := a.exchange(ctx, cred)
	if err != nil {
		return nil, err
	}
	user, err := a.users.FindUserByExternalID(ctx, ext.Provider, ext.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// first login through a provider creates the account
		user, err = a.createExternalUser(ctx, ext)
		if errors.Is(err, ErrAccountExists) {
			// a concurrent first login created it
			user, err = a.users.FindUserByExternalID(ctx, ext.Provider, ext.Subject)
			if err == nil && user == nil {
				err = ErrAccountExists
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return a.session(user)
}

// Verify resolves the user a token was issued to.
func (a *Authenticator) Verify(ctx context.Context, token string) (*core.User, error) {
	claims, err := a.tokens.ParseIdentityToken(token)
	if err != nil {
		return nil, err
	}
	user, err := a.users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (a *Authenticator) exchange(ctx context.Context, cred Credential) (*ExternalIdentity, error) {
	p, ok := a.providers[cred.Kind]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	return p.Exchange(ctx, cred.Code)
}

func (a *Authenticator) createExternalUser(ctx context.Context, ext *ExternalIdentity) (*core.User, error) {
	attrs, err := json.Marshal(ext.Claims)
	if err != nil {
		return nil, err
	}
	subject := ext.Subject
	user := &core.User{
		Provider:   ext.Provider,
		ExternalID: &subject,
		Attributes: datatypes.JSON(attrs),
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (a *Authenticator) session(user *core.User) (*Session, error) {
	token, expiresAt, err := a.tokens.CreateIdentityToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
