package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"worktally.com/worktally/infrastructure/devops"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(env(map[string]string{
		"DSN":                      "root@tcp(localhost:3306)/worktally?parseTime=true",
		"PORT":                     "9000",
		"TOKEN_TTL":                "2h",
		"WORKTALLY_SIGNING_SECRET": "c2VjcmV0",
		"OAUTH_SCOPES":             "openid,profile",
		"DB_DRIVER":                "",
	})))

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, []string{"openid", "profile"}, cfg.OAuth.Scopes)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvRejectsMalformedValues(t *testing.T) {
	for _, key := range []string{"PORT", "TOKEN_TTL", "DB_MAX_CONNECTIONS"} {
		t.Run(key, func(t *testing.T) {
			assert.Error(t, Default().ApplyEnv(env(map[string]string{key: "abc"})))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worktally.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8081
timezone: Australia/Brisbane
database:
  driver: sqlite
  dsn: worktally.db
auth:
  signingSecret: c2VjcmV0
  tokenTTL: 1h
slack:
  infoChannel: C123
`), 0o600))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "Australia/Brisbane", cfg.Timezone)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxConnections)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "C123", cfg.Slack.InfoChannelID)
	assert.NoError(t, cfg.Validate())

	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestApplySecrets(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "from-env"
	cfg.ApplySecrets(&devops.Secrets{SigningSecret: "c2VjcmV0", SlackToken: "xoxb-1"})

	assert.Equal(t, "from-env", cfg.Database.DSN)
	assert.Equal(t, "c2VjcmV0", cfg.Auth.SigningSecret)
	assert.Equal(t, "xoxb-1", cfg.Slack.BotToken)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Database.DSN = "dsn"
		cfg.Auth.SigningSecret = "c2VjcmV0"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "Missing DSN", mutate: func(c *Config) { c.Database.DSN = "" }},
		{name: "Missing signing secret", mutate: func(c *Config) { c.Auth.SigningSecret = "" }},
		{name: "Secret not base64", mutate: func(c *Config) { c.Auth.SigningSecret = "not base64!" }},
		{name: "Unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }},
		{name: "Port out of range", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "Wechat without secret", mutate: func(c *Config) { c.Wechat.AppID = "wx1" }},
		{name: "OAuth without endpoints", mutate: func(c *Config) { c.OAuth.ClientID = "client"; c.OAuth.ClientSecret = "s" }},
		{name: "Unknown timezone", mutate: func(c *Config) { c.Timezone = "Australia/Brisbaen" }},
		{name: "Offset is not a zone name", mutate: func(c *Config) { c.Timezone = "UTC+10" }},
		{name: "Bad sender", mutate: func(c *Config) { c.Report.EmailFrom = "nobody" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
