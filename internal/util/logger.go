// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the process-wide logger. It logs at Info to stderr until
// InitLogger reconfigures it.
var Logger = newLogger(os.Stderr, slog.LevelInfo)

// InitLogger initializes the global logger with appropriate log level.
// Set FAUCET_DEBUG=1 environment variable to enable debug logging.
func InitLogger() {
	level := slog.LevelInfo
	if os.Getenv("FAUCET_DEBUG") != "" {
		level = slog.LevelDebug
	}
	Logger = newLogger(os.Stderr, level)
}

// SetLogOutput redirects the global logger, with debug output optionally enabled.
// Used by the interactive shell and tests.
func SetLogOutput(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	Logger = newLogger(w, level)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		// Drop time and level for cleaner CLI output
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}

// Debug logs a debug message (only shown when FAUCET_DEBUG is set)
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
