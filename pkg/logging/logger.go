// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for kemrun.
//
// The package wraps the standard library slog package with a small
// configuration surface suited to a CI-driven command line tool:
//
//   - Default: human-readable text on stderr when attached to a
//     terminal, JSON otherwise (CI logs are machine-collected)
//   - Quiet mode for callers that only want the exit code
//
// Every log line produced by the test matrix carries the category,
// scheme, optimization label and compile mode as attributes, so a
// single grep isolates one cell of the matrix in a CI log.
package logging

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity. Levels follow the slog convention and
// are ordered Debug < Info < Warn < Error.
type Level int

const (
	// LevelDebug is for development troubleshooting and verbose runs.
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for potentially problematic situations.
	LevelWarn

	// LevelError is for error conditions.
	LevelError
)

// String returns the human-readable name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel bridges Level to the standard library.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures Logger behavior. A zero-value Config creates a
// logger that writes Info+ messages to stderr.
type Config struct {
	// Level sets the minimum log level. Messages below it are discarded.
	Level Level

	// JSON forces JSON output. When false the format is chosen by
	// terminal detection: text on a TTY, JSON otherwise.
	JSON bool

	// Quiet disables all output. Useful when only the process exit
	// code matters.
	Quiet bool

	// Service identifies the component generating logs and is included
	// in every entry as the "service" attribute.
	Service string
}

// =============================================================================
// Logger
// =============================================================================

// Logger provides structured logging backed by slog.
//
// Logger is safe for concurrent use; the underlying slog.Logger is
// thread-safe and Logger itself holds no mutable state.
type Logger struct {
	slog *slog.Logger
}

// New creates a Logger with the given configuration.
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level: config.Level.toSlogLevel(),
	}

	var handler slog.Handler
	switch {
	case config.Quiet:
		handler = slog.NewTextHandler(discardWriter{}, opts)
	case config.JSON || !isatty.IsTerminal(os.Stderr.Fd()):
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String("service", config.Service),
		})
	}

	return &Logger{slog: slog.New(handler)}
}

// Default returns a logger with default settings: Info level, stderr,
// service "kemrun".
func Default() *Logger {
	return New(Config{Level: LevelInfo, Service: "kemrun"})
}

// With returns a child logger that includes the given key-value
// attributes in every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// Debug logs a message at Debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs a message at Info level.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a message at Warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs a message at Error level.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// discardWriter drops everything written to it.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
