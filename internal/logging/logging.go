// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kyleking/lazylinear/internal/config"
)

// New returns a logger for cfg and a func that closes its output.
//
// With a log file configured, JSON lines are appended to it. Otherwise the
// logger writes human readable lines to fallback; a nil fallback discards
// everything, which is what the interactive UI wants.
func New(cfg config.Log, fallback io.Writer) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("opening log file: %w", err)
		}
		zerolog.TimeFieldFormat = time.RFC3339
		logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
		log.Logger = logger
		return logger, f.Close, nil
	}

	if fallback == nil {
		return zerolog.Nop(), noop, nil
	}

	output := zerolog.ConsoleWriter{Out: fallback, TimeFormat: time.Kitchen, NoColor: true}
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger, noop, nil
}
