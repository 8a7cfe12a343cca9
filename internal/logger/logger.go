package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. Production output is JSON with a "severity"
// level field so Cloud Logging can parse it; development output is human readable.
func New() zerolog.Logger {
	return NewWithWriter(os.Stderr, os.Getenv("ENV") == "development")
}

// NewWithWriter is New with an explicit sink, used by tests and tools.
func NewWithWriter(w io.Writer, console bool) zerolog.Logger {
	zerolog.LevelFieldName = "severity"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if console {
		w = zerolog.ConsoleWriter{Out: w}
	}
	logger := zerolog.New(w).With().Timestamp().Logger()

	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}
	return logger.Level(level)
}
