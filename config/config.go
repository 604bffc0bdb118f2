package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Tornflow TornflowConfig `yaml:"tornflow"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type TornflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`

	// RateLimit requests are admitted per RateWindow, matching the quota
	// the provider enforces per API key.
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`

	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`

	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type LoggingConfig struct {
	Level      string           `yaml:"level"`
	Format     string           `yaml:"format"`
	Output     string           `yaml:"output"`
	MaxAge     int              `yaml:"max_age"`
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
	Dashboard string `yaml:"dashboard"`
}

// envConfigPaths maps application environments to their configuration files.
var envConfigPaths = map[string]string{
	environmentProduction: "config/config.production.yml",
	environmentStaging:    "config/config.staging.yml",
}

const defaultConfigPath = "config/config.yml"

func LoadConfig(path string) (*Config, error) {
	path = resolveEnvSpecificPath(path, defaultConfigPath, envConfigPaths)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		API: APIConfig{
			BaseURL:    "https://api.torn.com",
			RateLimit:  100,
			RateWindow: time.Minute,
			Timeout:    30 * time.Second,
			UserAgent:  "TornFlow/1.0",
			ConnectionPool: ConnectionPoolConfig{
				MaxIdleConns:    10,
				MaxConnsPerHost: 10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// The API key never lives in checked-in config; the environment wins
	// whenever it is set.
	if v := os.Getenv("TORN_API_KEY"); v != "" {
		config.API.Key = strings.TrimSpace(v)
	}
	if v := os.Getenv("AWS_REGION"); v != "" && config.Logging.CloudWatch.Enabled {
		config.Logging.CloudWatch.Region = strings.TrimSpace(v)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Tornflow.Name == "" {
		return fmt.Errorf("tornflow.name is required")
	}
	if cfg.Tornflow.Version == "" {
		return fmt.Errorf("tornflow.version is required")
	}

	if cfg.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be greater than 0")
	}
	if cfg.API.RateWindow <= 0 {
		return fmt.Errorf("api.rate_window must be greater than 0")
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be greater than 0")
	}

	parsed, err := url.Parse(cfg.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url '%s' is invalid", cfg.API.BaseURL)
	}

	// A missing key is fatal only in production-like environments; in
	// development the client reports it per request instead, so commands
	// that never reach the API still work.
	if cfg.API.Key == "" && IsProductionLike(AppEnvironment()) {
		return fmt.Errorf("api.key (or TORN_API_KEY) is required in %s", AppEnvironment())
	}

	if cfg.Logging.CloudWatch.Enabled && cfg.Logging.CloudWatch.Region == "" {
		return fmt.Errorf("logging.cloudwatch.region is required when CloudWatch is enabled")
	}

	return nil
}
