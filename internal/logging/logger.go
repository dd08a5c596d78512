package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development output is human readable,
// everything else is JSON with timestamps and caller info.
func New(service, env, level string) zerolog.Logger {
	return newWithWriter(os.Stdout, service, env, level)
}

func newWithWriter(w io.Writer, service, env, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).Level(lvl).With().
			Timestamp().
			Str("service", service).
			Logger()
	}

	return zerolog.New(w).Level(lvl).
		With().
		Timestamp().
		Caller().
		Str("service", service).
		Logger()
}

// Nop returns a logger that discards everything, handy for tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
