// Package config loads lazylinear settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"

	"github.com/kyleking/lazylinear/internal/linear"
	"github.com/kyleking/lazylinear/internal/timeline"
)

const appDir = "lazylinear"

// Config is the full set of settings. Environment variables override the
// file, and env-default applies when neither sets a value.
type Config struct {
	APIKey    string        `yaml:"api_key" env:"LINEAR_API_KEY"`
	Endpoint  string        `yaml:"endpoint" env:"LINEAR_API_ENDPOINT" env-default:"https://api.linear.app/graphql"`
	Timeout   time.Duration `yaml:"timeout" env:"LINEAR_TIMEOUT" env-default:"30s"`
	Fetch     Fetch         `yaml:"fetch"`
	Timeline  Timeline      `yaml:"timeline"`
	Theme     string        `yaml:"theme" env:"LAZYLINEAR_THEME" env-default:"dark"`
	Log       Log           `yaml:"log"`
	StateFile string        `yaml:"state_file" env:"LAZYLINEAR_STATE_FILE"`
}

// Fetch bounds request fan-out and page sizes.
type Fetch struct {
	MemberBatchSize  int `yaml:"member_batch_size" env:"LAZYLINEAR_MEMBER_BATCH_SIZE" env-default:"3"`
	HistoryBatchSize int `yaml:"history_batch_size" env:"LAZYLINEAR_HISTORY_BATCH_SIZE" env-default:"10"`
	PageSize         int `yaml:"page_size" env:"LAZYLINEAR_PAGE_SIZE" env-default:"50"`
	HistoryPageSize  int `yaml:"history_page_size" env:"LAZYLINEAR_HISTORY_PAGE_SIZE" env-default:"20"`
	LookbackDays     int `yaml:"lookback_days" env:"LAZYLINEAR_LOOKBACK_DAYS" env-default:"7"`
}

// Timeline holds the initial view.
type Timeline struct {
	Range        string   `yaml:"range" env:"LAZYLINEAR_RANGE" env-default:"1w"`
	Team         string   `yaml:"team" env:"LAZYLINEAR_TEAM"`
	EnabledTypes []string `yaml:"enabled_types" env:"LAZYLINEAR_ENABLED_TYPES" env-default:"started,completed"`
}

// Log configures the structured logger.
type Log struct {
	Level string `yaml:"level" env:"LAZYLINEAR_LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LAZYLINEAR_LOG_FILE"`
}

// maxPageSize is the largest page the API accepts.
const maxPageSize = 250

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, appDir, "config.yml"), nil
}

// Load reads path, or the default location when path is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("cannot read environment: %w", err)
	}

	if cfg.StateFile == "" {
		cfg.StateFile = filepath.Join(filepath.Dir(path), "state.yml")
	}
	cfg.Timeline.EnabledTypes = normalizeList(cfg.Timeline.EnabledTypes)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	check := func(name string, v, lo, hi int) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Errorf("%s must be between %d and %d, got %d", name, lo, hi, v))
		}
	}
	check("fetch.member_batch_size", c.Fetch.MemberBatchSize, 1, 100)
	check("fetch.history_batch_size", c.Fetch.HistoryBatchSize, 1, 100)
	check("fetch.page_size", c.Fetch.PageSize, 1, maxPageSize)
	check("fetch.history_page_size", c.Fetch.HistoryPageSize, 1, maxPageSize)
	if c.Fetch.LookbackDays < 0 {
		errs = append(errs, fmt.Errorf("fetch.lookback_days must not be negative, got %d", c.Fetch.LookbackDays))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}

	if _, err := timeline.ParseRangeSize(c.Timeline.Range); err != nil {
		errs = append(errs, fmt.Errorf("timeline.range: %w", err))
	}
	for _, t := range c.Timeline.EnabledTypes {
		if !linear.StatusType(t).Valid() {
			errs = append(errs, fmt.Errorf("timeline.enabled_types: unknown status type %q", t))
		}
	}

	switch c.Theme {
	case "dark", "light":
	default:
		errs = append(errs, fmt.Errorf("theme must be dark or light, got %q", c.Theme))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// RangeSize returns the configured initial range. Call after Validate.
func (c Config) RangeSize() timeline.RangeSize {
	r, err := timeline.ParseRangeSize(c.Timeline.Range)
	if err != nil {
		return timeline.Range1W
	}
	return r
}

// StatusTypes returns the status types enabled by default.
func (c Config) StatusTypes() []linear.StatusType {
	types := make([]linear.StatusType, 0, len(c.Timeline.EnabledTypes))
	for _, t := range c.Timeline.EnabledTypes {
		types = append(types, linear.StatusType(t))
	}
	return types
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
