package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"
	attendance "worktally.com/worktally/attendance/core"
	"worktally.com/worktally/attendance/model"
	"worktally.com/worktally/config"
	"worktally.com/worktally/core"
	"worktally.com/worktally/infrastructure/communication"
	"worktally.com/worktally/security"
	"worktally.com/worktally/utils"
)

// App holds the services shared by the server, the CLI and the lambdas.
type App struct {
	Config     *config.Config
	Dm         *core.DatabaseManager
	Users      *core.UserRepository
	Tokens     *security.Tokens
	Auth       *security.Authenticator
	Engine     *attendance.Engine
	Aggregator *attendance.Aggregator
	Location   *time.Location
}

func New(cfg *config.Config) (*App, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	dialector, err := core.Dialector(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	dm, err := core.New(dialector, cfg.Database.MaxConnections, core.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		return nil, err
	}

	tokens, err := security.NewTokensFromBase64(cfg.Auth.SigningSecret, cfg.Auth.TokenTTL)
	if err != nil {
		dm.Close()
		return nil, err
	}

	users := core.NewUserRepository(dm)
	store := attendance.NewGormClockRecordStore(dm)

	return &App{
		Config:     cfg,
		Dm:         dm,
		Users:      users,
		Tokens:     tokens,
		Auth:       security.NewAuthenticator(users, tokens, Providers(cfg)...),
		Engine:     attendance.NewEngine(users, store, attendance.WithLocation(loc)),
		Aggregator: attendance.NewAggregator(store, loc),
		Location:   loc,
	}, nil
}

// Providers returns the external login providers that are configured.
func Providers(cfg *config.Config) []security.ExternalProvider {
	var providers []security.ExternalProvider
	if cfg.Wechat.AppID != "" {
		wechat := security.NewWechatProvider(cfg.Wechat.AppID, cfg.Wechat.AppSecret)
		if cfg.Wechat.BaseURL != "" {
			wechat.BaseURL = cfg.Wechat.BaseURL
		}
		providers = append(providers, wechat)
	}
	if cfg.OAuth.ClientID != "" {
		providers = append(providers, security.NewOAuthProvider(&oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       cfg.OAuth.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuth.AuthURL,
				TokenURL: cfg.OAuth.TokenURL,
			},
		}, cfg.OAuth.UserInfoURL))
	}
	return providers
}

// Notifier returns Slack when a bot token is configured.
func (a *App) Notifier() communication.Notifier {
	if a.Config.Slack.BotToken == "" {
		return communication.Discard{}
	}
	return communication.NewSlack(a.Config.Slack.BotToken, communication.SlackOption{
		InfoChannelID:  a.Config.Slack.InfoChannelID,
		ErrorChannelID: a.Config.Slack.ErrorChannelID,
	})
}

func (a *App) Migrate(ctx context.Context) error {
	log.Printf("[INFO] migrating users and clock records")
	if err := a.Dm.Migrate(ctx, &core.User{}, &model.ClockRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	return a.Dm.Close()
}
