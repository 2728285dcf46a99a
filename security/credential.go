package security

import (
	"errors"
	"strings"

	"worktally.com/worktally/core"
)

var ErrUnsupportedProvider = errors.New("unsupported auth type")

// Credential is either a local username/password pair or an authorization
// code issued by an external provider (Kind names the provider).
type Credential struct {
	Kind     string
	Username string
	Password string
	Code     string
}

func LocalCredential(username, password string) Credential {
	return Credential{Kind: core.ProviderLocal, Username: username, Password: password}
}

func ExternalCredential(provider, code string) Credential {
	return Credential{Kind: provider, Code: code}
}

func (c Credential) IsLocal() bool {
	return c.Kind == "" || c.Kind == core.ProviderLocal
}

func (c Credential) Validate() error {
	if c.IsLocal() {
		if strings.TrimSpace(c.Username) == "" || c.Password == "" {
			return ErrInvalidCredentials
		}
		return nil
	}
	if c.Code == "" {
		return ErrInvalidCredentials
	}
	return nil
}
