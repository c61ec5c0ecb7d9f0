package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/awano27/new-ai-news-site/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public base URL used in generated feeds"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:ainews.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Sources []SourceConfig `yaml:"sources" json:"sources" jsonschema:"description=News sources to collect from"`

	Schedule struct {
		UpdateInterval int `yaml:"update_interval" json:"update_interval" jsonschema:"default=30,description=Pipeline run interval in minutes"`
		MaxWorkers     int `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Maximum concurrent workers"`
		MinItems       int `yaml:"min_items" json:"min_items" jsonschema:"default=20,description=Minimum number of items per build padded with placeholders"`
		KeyPoints      int `yaml:"key_points" json:"key_points" jsonschema:"default=3,description=Key points extracted per item"`
		RetentionDays  int `yaml:"retention_days" json:"retention_days" jsonschema:"default=0,description=Days to keep stored items where 0 keeps everything"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Pipeline configuration"`

	Trust TrustConfig `yaml:"trust" json:"trust" jsonschema:"description=Source trust weights by registrable domain"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`
}

// SourceConfig describes one feed to collect
type SourceConfig struct {
	Name string `yaml:"name" json:"name" jsonschema:"required,description=Display name of the source"`
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Type string `yaml:"type" json:"type" jsonschema:"default=rss,enum=rss,enum=x,description=Source kind"`
}

// TrustConfig holds per-domain trust weights
type TrustConfig struct {
	Default float64            `yaml:"default" json:"default" jsonschema:"default=0.5,minimum=0,maximum=1,description=Weight for unknown domains"`
	Weights map[string]float64 `yaml:"weights" json:"weights" jsonschema:"description=Weight per registrable domain in [0 to 1]"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable content extraction for thin summaries"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=ainews/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=120,description=Summaries shorter than this are extracted"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:ainews.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for schedule
	if cfg.Schedule.UpdateInterval == 0 {
		cfg.Schedule.UpdateInterval = 30
	}
	if cfg.Schedule.MaxWorkers == 0 {
		cfg.Schedule.MaxWorkers = 5
	}
	if cfg.Schedule.MinItems == 0 {
		cfg.Schedule.MinItems = 20
	}
	if cfg.Schedule.KeyPoints == 0 {
		cfg.Schedule.KeyPoints = 3
	}

	// set defaults for sources and trust
	for i := range cfg.Sources {
		if cfg.Sources[i].Type == "" {
			cfg.Sources[i].Type = domain.SourceTypeRSS
		}
	}
	if cfg.Trust.Default == 0 {
		cfg.Trust.Default = 0.5
	}

	// set defaults for extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "ainews/1.0"
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 120
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	for i, src := range cfg.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d].name is required", i)
		}
		if src.URL == "" {
			return fmt.Errorf("sources[%d].url is required", i)
		}
		if src.Type != domain.SourceTypeRSS && src.Type != domain.SourceTypeX {
			return fmt.Errorf("sources[%d].type must be %q or %q", i, domain.SourceTypeRSS, domain.SourceTypeX)
		}
	}

	if cfg.Trust.Default < 0 || cfg.Trust.Default > 1 {
		return fmt.Errorf("trust.default must be between 0 and 1")
	}
	for d, w := range cfg.Trust.Weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("trust.weights[%s] must be between 0 and 1", d)
		}
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Schedule.MinItems < 0 {
		return fmt.Errorf("schedule.min_items must be non-negative")
	}

	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction min_text_length must be non-negative")
		}
	}

	return nil
}

// DomainSources converts configured sources to their domain representation
func (c *Config) DomainSources() []domain.Source {
	sources := make([]domain.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		sources = append(sources, domain.Source{Name: s.Name, URL: s.URL, Type: s.Type})
	}
	return sources
}

// TrustWeights merges the default weight into the per-domain map consumed by
// the trust resolver
func (c *Config) TrustWeights() map[string]float64 {
	weights := make(map[string]float64, len(c.Trust.Weights)+1)
	for d, w := range c.Trust.Weights {
		weights[d] = w
	}
	weights["default"] = c.Trust.Default
	return weights
}
