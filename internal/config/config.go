// Package config loads trip-planner settings from TRIPPLANNER_* environment
// variables and configures the global zerolog logger.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "TRIPPLANNER"

// DefaultBaseURL is the hosted mock backend.
const DefaultBaseURL = "https://trip-planner.free.beeceptor.com/api/trips"

// LocalBaseURL is the trips collection served by trip-mock-server.
const LocalBaseURL = "http://localhost:3000/api/trips"

// Config holds settings shared by the CLI and the mock server.
// Example: TRIPPLANNER_BASE_URL, TRIPPLANNER_MOCK_ADDR.
type Config struct {
	// Client
	BaseURL     string        `envconfig:"BASE_URL" default:"https://trip-planner.free.beeceptor.com/api/trips"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`

	// Images
	ImageCacheCapacity int `envconfig:"IMAGE_CACHE_CAPACITY" default:"50"`

	// Mock backend
	MockAddr         string `envconfig:"MOCK_ADDR" default:":3000"`
	MockDBPath       string `envconfig:"MOCK_DB_PATH" default:":memory:"`
	MockTemplateMode bool   `envconfig:"MOCK_TEMPLATE_MODE" default:"false"`
	MockEnvelope     bool   `envconfig:"MOCK_ENVELOPE" default:"false"`
}

// Load parses TRIPPLANNER_* variables and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%s_BASE_URL must not be empty", EnvPrefix)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%s_HTTP_TIMEOUT must not be negative", EnvPrefix)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%s_LOG_LEVEL: %w", EnvPrefix, err)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	return ParseLevel(c.LogLevel)
}

// LogSummary writes the effective configuration at debug level.
func (c *Config) LogSummary() {
	log.Debug().
		Str("base_url", c.BaseURL).
		Dur("http_timeout", c.HTTPTimeout).
		Str("log_level", c.LogLevel).
		Int("image_cache_capacity", c.ImageCacheCapacity).
		Str("mock_addr", c.MockAddr).
		Str("mock_db_path", c.MockDBPath).
		Bool("mock_template_mode", c.MockTemplateMode).
		Bool("mock_envelope", c.MockEnvelope).
		Msg("configuration loaded")
}

// ParseLevel maps a level name to zerolog, returning info for unknown input.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
