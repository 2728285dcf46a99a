package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"worktally.com/worktally/infrastructure/devops"
	"worktally.com/worktally/utils"
)

type DatabaseConfig struct {
	Driver         string `yaml:"driver" validate:"oneof=mysql postgres sqlite"`
	DSN            string `yaml:"dsn" validate:"required"`
	MaxConnections int    `yaml:"maxConnections" validate:"gte=1"`
	LogLevel       string `yaml:"logLevel" validate:"omitempty,oneof=silent error warn info"`
}

type AuthConfig struct {
	// base64 encoded HMAC key
	SigningSecret string        `yaml:"signingSecret" validate:"required,base64"`
	TokenTTL      time.Duration `yaml:"tokenTTL"`
}

type WechatConfig struct {
	AppID     string `yaml:"appId"`
	AppSecret string `yaml:"appSecret" validate:"required_with=AppID"`
	BaseURL   string `yaml:"baseUrl" validate:"omitempty,url"`
}

type OAuthConfig struct {
	ClientID     string   `yaml:"clientId"`
	ClientSecret string   `yaml:"clientSecret" validate:"required_with=ClientID"`
	AuthURL      string   `yaml:"authUrl" validate:"required_with=ClientID,omitempty,url"`
	TokenURL     string   `yaml:"tokenUrl" validate:"required_with=ClientID,omitempty,url"`
	UserInfoURL  string   `yaml:"userInfoUrl" validate:"required_with=ClientID,omitempty,url"`
	RedirectURL  string   `yaml:"redirectUrl"`
	Scopes       []string `yaml:"scopes"`
}

type SlackConfig struct {
	BotToken       string `yaml:"botToken"`
	InfoChannelID  string `yaml:"infoChannel"`
	ErrorChannelID string `yaml:"errorChannel"`
}

type ReportConfig struct {
	Bucket    string `yaml:"bucket"`
	EmailFrom string `yaml:"emailFrom" validate:"omitempty,email"`
}

type Config struct {
	Port     int            `yaml:"port" validate:"gte=1,lte=65535"`
	Timezone string         `yaml:"timezone"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Wechat   WechatConfig   `yaml:"wechat"`
	OAuth    OAuthConfig    `yaml:"oauth"`
	Slack    SlackConfig    `yaml:"slack"`
	Report   ReportConfig   `yaml:"report"`
	// name of the SSM parameter holding secrets
	SecretsParam string `yaml:"secretsParam"`
}

func Default() *Config {
	return &Config{
		Port:     8090,
		Timezone: "Local",
		Database: DatabaseConfig{
			Driver:         "mysql",
			MaxConnections: 10,
			LogLevel:       "warn",
		},
		Auth: AuthConfig{TokenTTL: 24 * time.Hour},
	}
}

// Load builds the configuration from .env, the optional YAML file named by
// WORKTALLY_CONFIG, environment variables and finally SSM secrets.
func Load(ctx context.Context) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("WORKTALLY_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if cfg.SecretsParam != "" {
		secrets, err := devops.LoadSecrets(ctx, cfg.SecretsParam)
		if err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
		cfg.ApplySecrets(secrets)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("DSN", &c.Database.DSN)
	str("DB_DRIVER", &c.Database.Driver)
	str("LOG_LEVEL", &c.Database.LogLevel)
	str("TIMEZONE", &c.Timezone)
	str("WORKTALLY_SIGNING_SECRET", &c.Auth.SigningSecret)
	str("WECHAT_APP_ID", &c.Wechat.AppID)
	str("WECHAT_APP_SECRET", &c.Wechat.AppSecret)
	str("OAUTH_CLIENT_ID", &c.OAuth.ClientID)
	str("OAUTH_CLIENT_SECRET", &c.OAuth.ClientSecret)
	str("OAUTH_AUTH_URL", &c.OAuth.AuthURL)
	str("OAUTH_TOKEN_URL", &c.OAuth.TokenURL)
	str("OAUTH_USERINFO_URL", &c.OAuth.UserInfoURL)
	str("OAUTH_REDIRECT_URL", &c.OAuth.RedirectURL)
	str("SLACK_BOT_TOKEN", &c.Slack.BotToken)
	str("SLACK_INFO_CHANNEL", &c.Slack.InfoChannelID)
	str("SLACK_ERROR_CHANNEL", &c.Slack.ErrorChannelID)
	str("REPORT_BUCKET", &c.Report.Bucket)
	str("REPORT_EMAIL_FROM", &c.Report.EmailFrom)
	str("SSM_SECRETS_PARAM", &c.SecretsParam)

	if v, ok := lookup("OAUTH_SCOPES"); ok && v != "" {
		c.OAuth.Scopes = strings.Split(v, ",")
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v, ok := lookup("TOKEN_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.Auth.TokenTTL = ttl
	}
	if v, ok := lookup("DB_MAX_CONNECTIONS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_CONNECTIONS %q: %w", v, err)
		}
		c.Database.MaxConnections = n
	}
	return nil
}

func (c *Config) ApplySecrets(s *devops.Secrets) {
	if s == nil {
		return
	}
	for _, pair := range []struct {
		value string
		dst   *string
	}{
		{s.DSN, &c.Database.DSN},
		{s.SigningSecret, &c.Auth.SigningSecret},
		{s.WechatSecret, &c.Wechat.AppSecret},
		{s.OAuthSecret, &c.OAuth.ClientSecret},
		{s.SlackToken, &c.Slack.BotToken},
	} {
		if pair.value != "" {
			*pair.dst = pair.value
		}
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
