package application

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines simulation service configuration.
type Config struct {
	HTTPAddr        string
	ReactorID       string
	ReactorName     string
	TickInterval    time.Duration
	RandomSeed      int64
	AlertWebhookURL string
	JWTSecret       string
}

type fileConfig struct {
	HTTPAddr        string `yaml:"http_addr"`
	ReactorID       string `yaml:"reactor_id"`
	ReactorName     string `yaml:"reactor_name"`
	TickInterval    string `yaml:"tick_interval"`
	RandomSeed      *int64 `yaml:"random_seed"`
	AlertWebhookURL string `yaml:"alert_webhook_url"`
	JWTSecret       string `yaml:"jwt_secret"`
}

// LoadConfig loads config from env with an optional YAML overlay file
// named by REACTOR_CONFIG. A zero RandomSeed means a time-based seed.
func LoadConfig() (Config, error) {
	cfg := Config{
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
		ReactorID:       getenvDefault("REACTOR_ID", "R-001"),
		ReactorName:     getenvDefault("REACTOR_NAME", "Main Reactor"),
		TickInterval:    getenvDuration("TICK_INTERVAL", time.Second),
		RandomSeed:      getenvInt64Default("RANDOM_SEED", 0),
		AlertWebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
		JWTSecret:       getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}

	if path := os.Getenv("REACTOR_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		var overlay fileConfig
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			return cfg, err
		}
		if overlay.HTTPAddr != "" {
			cfg.HTTPAddr = overlay.HTTPAddr
		}
		if overlay.ReactorID != "" {
			cfg.ReactorID = overlay.ReactorID
		}
		if overlay.ReactorName != "" {
			cfg.ReactorName = overlay.ReactorName
		}
		if overlay.TickInterval != "" {
			parsed, err := time.ParseDuration(overlay.TickInterval)
			if err != nil {
				return cfg, fmt.Errorf("config: bad tick_interval: %w", err)
			}
			cfg.TickInterval = parsed
		}
		if overlay.RandomSeed != nil {
			cfg.RandomSeed = *overlay.RandomSeed
		}
		if overlay.AlertWebhookURL != "" {
			cfg.AlertWebhookURL = overlay.AlertWebhookURL
		}
		if overlay.JWTSecret != "" {
			cfg.JWTSecret = overlay.JWTSecret
		}
	}

	if cfg.ReactorID == "" {
		return cfg, errors.New("config: reactor id required")
	}
	if cfg.TickInterval <= 0 {
		return cfg, errors.New("config: tick interval must be positive")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt64Default(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
