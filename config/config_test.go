package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "appx",
		},
		Secrets: SecretsConfig{
			Region:    "us-east-1",
			Parameter: "keys_google_adwords_api_keys.yml",
		},
		GoogleAds: GoogleAdsConfig{
			Endpoint:   "https://googleads.googleapis.com",
			APIVersion: "v16",
			Retry: RetryConfig{
				MaxAttempts: 8,
				Deadline:    15 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing mongo URI",
			mutate:  func(c *Config) { c.Mongo.URI = "" },
			wantErr: true,
		},
		{
			name:    "missing mongo database",
			mutate:  func(c *Config) { c.Mongo.Database = "" },
			wantErr: true,
		},
		{
			name:    "missing secrets parameter",
			mutate:  func(c *Config) { c.Secrets.Parameter = "" },
			wantErr: true,
		},
		{
			name:    "missing API version",
			mutate:  func(c *Config) { c.GoogleAds.APIVersion = "" },
			wantErr: true,
		},
		{
			name:    "zero retry attempts",
			mutate:  func(c *Config) { c.GoogleAds.Retry.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "negative retry deadline",
			mutate:  func(c *Config) { c.GoogleAds.Retry.Deadline = -time.Second },
			wantErr: true,
		},
		{
			name:    "negative login cache TTL",
			mutate:  func(c *Config) { c.GoogleAds.LoginCacheTTL = -time.Minute },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
