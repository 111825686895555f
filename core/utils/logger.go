package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

type LoggerOptions struct {
	Level   string
	Console bool
	Output  io.Writer
}

func NewLogger() *Logger {
	return NewLoggerWithOptions(LoggerOptions{Level: "info"})
}

func NewLoggerWithOptions(opts LoggerOptions) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return &Logger{zl: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

// With returns a child logger carrying an extra field on every line.
func (l *Logger) With(key, value string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Error().Msgf(format, args...)
}
