package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
	GoogleAds GoogleAdsConfig `mapstructure:"googleads"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// MongoConfig holds the connection details for the accounts database
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// SecretsConfig holds the AWS SSM Parameter Store settings for the
// shared Google Ads API keys document
type SecretsConfig struct {
	Region    string `mapstructure:"region"`
	Parameter string `mapstructure:"parameter"`
}

// GoogleAdsConfig holds Google Ads API settings
type GoogleAdsConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	APIVersion    string        `mapstructure:"api_version"`
	Retry         RetryConfig   `mapstructure:"retry"`
	LoginCacheTTL time.Duration `mapstructure:"login_cache_ttl"`
}

// RetryConfig bounds the per-call retry policy for Google Ads API requests
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Deadline    time.Duration `mapstructure:"deadline"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
