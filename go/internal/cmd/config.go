package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client runtime configuration. Values come from the YAML
// file first; environment variables override.
type Config struct {
	API struct {
		BaseURL   string `yaml:"base_url"`
		SocketURL string `yaml:"socket_url"`
	} `yaml:"api"`
	Feed struct {
		PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	} `yaml:"feed"`
	Ticker struct {
		RotateIntervalSeconds int `yaml:"rotate_interval_seconds"`
	} `yaml:"ticker"`
	TokenPath string `yaml:"token_path"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.API.BaseURL = getEnv("API_BASE_URL", config.API.BaseURL)
	if config.API.BaseURL == "" {
		config.API.BaseURL = "http://localhost:8080"
	}
	config.API.SocketURL = getEnv("API_SOCKET_URL", config.API.SocketURL)

	config.Feed.PollIntervalSeconds = getEnvAsInt("FEED_POLL_INTERVAL", config.Feed.PollIntervalSeconds)
	if config.Feed.PollIntervalSeconds <= 0 {
		config.Feed.PollIntervalSeconds = 30
	}
	config.Ticker.RotateIntervalSeconds = getEnvAsInt("TICKER_ROTATE_INTERVAL", config.Ticker.RotateIntervalSeconds)
	if config.Ticker.RotateIntervalSeconds <= 0 {
		config.Ticker.RotateIntervalSeconds = 5
	}

	config.TokenPath = getEnv("TOKEN_PATH", config.TokenPath)
	if config.TokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home dir: %w", err)
		}
		config.TokenPath = home + "/.coinbazaar/token"
	}

	return &config, nil
}

// PollInterval returns the feed refresh cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Feed.PollIntervalSeconds) * time.Second
}

// RotateInterval returns the ticker rotation cadence as a duration.
func (c *Config) RotateInterval() time.Duration {
	return time.Duration(c.Ticker.RotateIntervalSeconds) * time.Second
}
