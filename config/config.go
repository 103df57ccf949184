package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".adsdata"))
		}

		// Check /etc
		v.AddConfigPath("/etc/adsdata/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Accounts database defaults
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "appx")

	// Secrets store defaults
	v.SetDefault("secrets.region", "us-east-1")
	v.SetDefault("secrets.parameter", "keys_google_adwords_api_keys.yml")

	// Google Ads API defaults
	v.SetDefault("googleads.endpoint", "https://googleads.googleapis.com")
	v.SetDefault("googleads.api_version", "v16")
	v.SetDefault("googleads.retry.max_attempts", 8)
	v.SetDefault("googleads.retry.deadline", 15*time.Second)
	v.SetDefault("googleads.login_cache_ttl", time.Duration(0))

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}

	if cfg.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}

	if cfg.Secrets.Parameter == "" {
		return fmt.Errorf("secrets.parameter is required")
	}

	if cfg.GoogleAds.Endpoint == "" {
		return fmt.Errorf("googleads.endpoint is required")
	}

	if cfg.GoogleAds.APIVersion == "" {
		return fmt.Errorf("googleads.api_version is required")
	}

	if cfg.GoogleAds.Retry.MaxAttempts < 1 {
		return fmt.Errorf("googleads.retry.max_attempts must be at least 1")
	}

	if cfg.GoogleAds.Retry.Deadline <= 0 {
		return fmt.Errorf("googleads.retry.deadline must be positive")
	}

	if cfg.GoogleAds.LoginCacheTTL < 0 {
		return fmt.Errorf("googleads.login_cache_ttl must not be negative")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
