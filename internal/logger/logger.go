package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carloszaep/my-prostore/internal/config"
)

// New builds the process-wide logger from config. Format "console" is for
// local development; anything else emits JSON.
func New(cfg config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
