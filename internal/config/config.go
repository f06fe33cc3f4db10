package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Criteria CriteriaConfig `yaml:"criteria"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port              int    `yaml:"port"`
	MetricsPort       int    `yaml:"metrics_port"`
	AuthToken         string `yaml:"auth_token"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

// CriteriaConfig points at the hosted completion endpoint used for
// acceptance-criteria generation.
type CriteriaConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	MaxAttempts int    `yaml:"max_attempts"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) CriteriaTimeout() time.Duration {
	return time.Duration(c.Criteria.TimeoutMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RequestsPerMinute: 120,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Criteria: CriteriaConfig{
			Model:       "gpt-4o-mini",
			TimeoutMs:   30000,
			MaxAttempts: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COMPASS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("COMPASS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("COMPASS_AUTH_TOKEN"); v != "" {
		cfg.Server.AuthToken = v
	}
	if v := os.Getenv("COMPASS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("COMPASS_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("COMPASS_CRITERIA_URL"); v != "" {
		cfg.Criteria.URL = v
	}
	if v := os.Getenv("COMPASS_CRITERIA_API_KEY"); v != "" {
		cfg.Criteria.APIKey = v
	}
	if v := os.Getenv("COMPASS_CRITERIA_MODEL"); v != "" {
		cfg.Criteria.Model = v
	}
	if v := os.Getenv("COMPASS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
