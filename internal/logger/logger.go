// Package logger builds the service logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/Alp4ka/keyset/internal/config"
	"github.com/rs/zerolog"
)

// Configure returns a logger writing to stdout and sets the global level.
// Unknown or empty levels mean info.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	return New(cfg, os.Stdout)
}

func New(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.Enabled {
		out = io.Discard
	} else if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Str("service", "keyset-server").
		Logger()
}
