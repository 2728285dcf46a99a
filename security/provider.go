package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"worktally.com/worktally/core"
)

var ErrExternalAuth = errors.New("external authentication failed")

// ExternalIdentity is the account a provider vouches for.
type ExternalIdentity struct {
	Provider string
	Subject  string
	Claims   map[string]any
}

type ExternalProvider interface {
	Name() string
	Exchange(ctx context.Context, code string) (*ExternalIdentity, error)
}

const wechatBaseURL = "https://api.weixin.qq.com"

// WechatProvider resolves mini-program login codes through jscode2session.
type WechatProvider struct {
	AppID      string
	AppSecret  string
	BaseURL    string
	HTTPClient *http.Client
}

func NewWechatProvider(appID, appSecret string) *WechatProvider {
	return &WechatProvider{
		AppID:      appID,
		AppSecret:  appSecret,
		BaseURL:    wechatBaseURL,
		HTTPClient: &http.Client{},
	}
}

func (p *WechatProvider) Name() string {
	return core.ProviderWechat
}

type jscode2sessionResp struct {
	OpenID  string `json:"openid"`
	UnionID string `json:"unionid"`
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (p *WechatProvider) Exchange(ctx context.Context, code string) (*ExternalIdentity, error) {
	q := url.Values{}
	q.Set("appid", p.AppID)
	q.Set("secret", p.AppSecret)
	q.Set("js_code", code)
	q.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/sns/jscode2session?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: jscode2session status %d: %s", ErrExternalAuth, resp.StatusCode, string(b))
	}

	var body jscode2sessionResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAuth, err)
	}
	if body.ErrCode != 0 || body.OpenID == "" {
		return nil, fmt.Errorf("%w: wechat error %d %s", ErrExternalAuth, body.ErrCode, body.ErrMsg)
	}

	claims := map[string]any{"openid": body.OpenID}
	if body.UnionID != "" {
		claims["unionid"] = body.UnionID
	}
	return &ExternalIdentity{Provider: p.Name(), Subject: body.OpenID, Claims: claims}, nil
}

// OAuthProvider exchanges an OAuth2 authorization code and reads the subject
// from the provider's userinfo endpoint.
type OAuthProvider struct {
	Config      *oauth2.Config
	UserInfoURL string
}

func NewOAuthProvider(cfg *oauth2.Config, userInfoURL string) *OAuthProvider {
	return &OAuthProvider{Config: cfg, UserInfoURL: userInfoURL}
}

func (p *OAuthProvider) Name() string {
	return core.ProviderOAuth
}

func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*ExternalIdentity, error) {
	tok, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrExternalAuth, resp.StatusCode)
	}

	claims := map[string]any{}
	dec := json.NewDecoder(resp.Body)
	// numeric ids keep every digit
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAuth, err)
	}

	subject := ""
	for _, key := range []string{"sub", "id"} {
		switch v := claims[key].(type) {
		case string:
			subject = v
		case json.Number:
			subject = v.String()
		}
		if subject != "" {
			break
		}
	}
	if subject == "" {
		return nil, fmt.Errorf("%w: userinfo has no subject", ErrExternalAuth)
	}
	return &ExternalIdentity{Provider: p.Name(), Subject: subject, Claims: claims}, nil
}
