package devops

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Secrets is the YAML document stored in the secrets parameter. Empty
// values leave the corresponding setting untouched.
type Secrets struct {
	DSN           string `yaml:"dsn"`
	SigningSecret string `yaml:"signingSecret"`
	WechatSecret  string `yaml:"wechatAppSecret"`
	OAuthSecret   string `yaml:"oauthClientSecret"`
	SlackToken    string `yaml:"slackBotToken"`
}

type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

func FetchSecrets(ctx context.Context, client ParameterGetter, paramName string) (*Secrets, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter %s: %w", paramName, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s is empty", paramName)
	}

	var parsed Secrets
	if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return &parsed, nil
}

var (
	once    sync.Once
	secrets *Secrets
	loadErr error
)

// LoadSecrets reads the parameter once per process using the default AWS
// credential chain.
func LoadSecrets(ctx context.Context, paramName string) (*Secrets, error) {
	once.Do(func() {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}
		secrets, loadErr = FetchSecrets(ctx, ssm.NewFromConfig(cfg), paramName)
	})

	return secrets, loadErr
}
