package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type zeroLogger struct {
	inner zerolog.Logger
}

// NewLogger creates a leveled logger. Level is one of debug, info, warn, error
// or silence. Pretty enables the human readable console writer.
func NewLogger(level string, pretty bool) *zeroLogger {
	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return &zeroLogger{
		inner: zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger(),
	}
}

func NewNopLogger() *zeroLogger {
	return &zeroLogger{inner: zerolog.Nop()}
}

func (l *zeroLogger) Debugf(msg string, a ...any) {
	l.inner.Debug().Msgf(msg, a...)
}

func (l *zeroLogger) Infof(msg string, a ...any) {
	l.inner.Info().Msgf(msg, a...)
}

func (l *zeroLogger) Warnf(msg string, a ...any) {
	l.inner.Warn().Msgf(msg, a...)
}

func (l *zeroLogger) Errorf(msg string, a ...any) {
	l.inner.Error().Msgf(msg, a...)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "silence":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
