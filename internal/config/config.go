// Package config loads planner configuration from an optional YAML file and
// MEALMATE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"mealmate/internal/domain"
	"mealmate/internal/logging"
)

const (
	envPrefix         = "MEALMATE_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Store backends.
const (
	BackendRecordStore = "recordstore"
	BackendSQLite      = "sqlite"
	BackendMemory      = "memory"
)

// Config is the complete planner configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Store       StoreConfig       `koanf:"store"`
	RecordStore RecordStoreConfig `koanf:"recordstore"`
	Planner     PlannerConfig     `koanf:"planner"`
	Log         logging.Config    `koanf:"log"`
}

// ServerConfig configures the planner HTTP API.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	WebDir          string        `koanf:"web_dir"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig selects and tunes the meal persistence backend.
type StoreConfig struct {
	Backend              string        `koanf:"backend"`
	URL                  string        `koanf:"url"`
	SQLitePath           string        `koanf:"sqlite_path"`
	Timeout              time.Duration `koanf:"timeout"`
	RateLimit            float64       `koanf:"rate_limit"`
	Burst                int           `koanf:"burst"`
	RetryMaxTries        uint          `koanf:"retry_max_tries"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `koanf:"retry_max_interval"`
}

// RecordStoreConfig configures the bundled record store server.
type RecordStoreConfig struct {
	Addr        string `koanf:"addr"`
	DatabaseURL string `koanf:"database_url"`
}

// PlannerConfig holds weekly view settings.
type PlannerConfig struct {
	WeekStart    string `koanf:"week_start"`
	Mode         string `koanf:"mode"`
	AuthRequired bool   `koanf:"auth_required"`
}

// Load reads path (if non-empty), then applies environment overrides and
// defaults, and validates the result.
//
// Environment variables map by dropping the prefix and splitting on the
// first underscore:
//
//	MEALMATE_STORE_URL             -> store.url
//	MEALMATE_STORE_RETRY_MAX_TRIES -> store.retry_max_tries
//	MEALMATE_PLANNER_WEEK_START    -> planner.week_start
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.WebDir == "" {
		cfg.Server.WebDir = "web"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendRecordStore
	}
	if cfg.Store.URL == "" {
		cfg.Store.URL = "http://localhost:3001"
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "mealmate.db"
	}
	if cfg.Store.Timeout == 0 {
		cfg.Store.Timeout = 5 * time.Second
	}
	if cfg.Store.RateLimit == 0 {
		cfg.Store.RateLimit = 20
	}
	if cfg.Store.Burst == 0 {
		cfg.Store.Burst = 10
	}
	if cfg.Store.RetryMaxTries == 0 {
		cfg.Store.RetryMaxTries = 4
	}
	if cfg.Store.RetryInitialInterval == 0 {
		cfg.Store.RetryInitialInterval = 100 * time.Millisecond
	}
	if cfg.Store.RetryMaxInterval == 0 {
		cfg.Store.RetryMaxInterval = 2 * time.Second
	}

	if cfg.RecordStore.Addr == "" {
		cfg.RecordStore.Addr = ":3001"
	}
	if cfg.RecordStore.DatabaseURL == "" {
		cfg.RecordStore.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.Planner.WeekStart == "" {
		cfg.Planner.WeekStart = "monday"
	}
	if cfg.Planner.Mode == "" {
		cfg.Planner.Mode = string(domain.ModeDate)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendRecordStore:
		u, err := url.Parse(c.Store.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("store.url must be an absolute URL, got %q", c.Store.URL))
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("store.backend must be recordstore, sqlite or memory, got %q", c.Store.Backend))
	}
	if c.Store.RateLimit < 0 {
		errs = append(errs, errors.New("store.rate_limit must not be negative"))
	}
	if _, ok := domain.ParseWeekday(c.Planner.WeekStart); !ok {
		errs = append(errs, fmt.Errorf("planner.week_start must be a weekday name, got %q", c.Planner.WeekStart))
	}
	if _, err := domain.ParseMode(c.Planner.Mode); err != nil {
		errs = append(errs, fmt.Errorf("planner.mode: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WeekStartDay returns the configured first day of the week.
func (p PlannerConfig) WeekStartDay() time.Weekday {
	d, _ := domain.ParseWeekday(p.WeekStart)
	return d
}

// ViewMode returns the configured slot mode.
func (p PlannerConfig) ViewMode() domain.Mode {
	m, _ := domain.ParseMode(p.Mode)
	return m
}
