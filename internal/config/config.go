package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog sources accepted in quiz.catalog.
const (
	CatalogBuiltin  = "builtin"
	CatalogPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Logger struct {
		Level string `yaml:"level"`
		Env   string `yaml:"env"`
	} `yaml:"logger"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		DefaultQuestions int    `yaml:"default_questions"`
		Catalog          string `yaml:"catalog"`
	} `yaml:"quiz"`
	Leaderboard struct {
		DefaultLimit int    `yaml:"default_limit"`
		MaxLimit     int    `yaml:"max_limit"`
		CacheTTL     string `yaml:"cache_ttl"`
	} `yaml:"leaderboard"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Quiz.DefaultQuestions == 0 {
		c.Quiz.DefaultQuestions = 10
	}
	if c.Quiz.Catalog == "" {
		c.Quiz.Catalog = CatalogBuiltin
	}
}

// Validate checks settings that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Quiz.Catalog {
	case CatalogBuiltin:
	case CatalogPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("quiz.catalog is %q but postgres.url is empty", c.Quiz.Catalog)
		}
	default:
		return fmt.Errorf("unknown quiz.catalog %q", c.Quiz.Catalog)
	}
	if c.Quiz.DefaultQuestions < 1 {
		return fmt.Errorf("quiz.default_questions must be positive, got %d", c.Quiz.DefaultQuestions)
	}
	if c.Leaderboard.DefaultLimit < 0 || c.Leaderboard.MaxLimit < 0 {
		return fmt.Errorf("leaderboard limits must not be negative")
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
