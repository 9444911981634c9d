// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
)

var logFormats = []string{"text", "json"}

// logFormat is a [flag.Value] selecting the [slog.Handler].
type logFormat string

func (f *logFormat) String() string {
	return string(*f)
}

func (f *logFormat) Set(s string) error {
	if !slices.Contains(logFormats, s) {
		return fmt.Errorf("%w: %s (use one of %v)", ErrInvalidFormat, s, logFormats)
	}

	*f = logFormat(s)

	return nil
}

// newLogger creates the logger for the run and makes it the default. Only
// warnings and errors are logged unless debug is set.
func newLogger(w io.Writer, format logFormat, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler

	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
