// Package secrets fetches the shared Google Ads API keys from AWS SSM
// Parameter Store.
//
// The parameter value is a small YAML document holding client_id,
// client_secret, and developer_token. Keys are fetched fresh on every
// call; callers that need caching should layer it themselves.
package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Keys holds the shared Google Ads API credentials
type Keys struct {
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	DeveloperToken string `yaml:"developer_token"`
}

// Provider supplies the shared API keys
type Provider interface {
	Keys(ctx context.Context) (Keys, error)
}

// SSMStore reads the API keys document from SSM Parameter Store
type SSMStore struct {
	client    *ssm.Client
	parameter string
	logger    zerolog.Logger
}

// NewSSMStore creates an SSM-backed key provider
func NewSSMStore(ctx context.Context, region, parameter string, logger zerolog.Logger) (*SSMStore, error) {
	if parameter == "" {
		return nil, fmt.Errorf("secrets parameter name is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SSMStore{
		client:    ssm.NewFromConfig(cfg),
		parameter: parameter,
		logger:    logger,
	}, nil
}

// Keys fetches and parses the API keys document
func (s *SSMStore) Keys(ctx context.Context) (Keys, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.parameter),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return Keys{}, fmt.Errorf("failed to fetch parameter %s: %w", s.parameter, err)
	}

	if out.Parameter == nil || out.Parameter.Value == nil {
		return Keys{}, fmt.Errorf("parameter %s has no value", s.parameter)
	}

	s.logger.Debug().Str("parameter", s.parameter).Msg("Fetched API keys from SSM")

	return ParseKeys([]byte(*out.Parameter.Value))
}

// ParseKeys parses a YAML API keys document
func ParseKeys(data []byte) (Keys, error) {
	var keys Keys
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return Keys{}, fmt.Errorf("failed to parse API keys document: %w", err)
	}

	if keys.ClientID == "" || keys.ClientSecret == "" || keys.DeveloperToken == "" {
		return Keys{}, fmt.Errorf("API keys document is missing required fields")
	}

	return keys, nil
}
