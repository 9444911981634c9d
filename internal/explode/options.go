// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package explode

import (
	"log/slog"

	"github.com/aibor/explode/internal/vfs"
)

// Option configures [Explode] and [Root].
type Option func(*config)

// Stats counts the entries visited during an explosion.
type Stats struct {
	// Leaves is the number of non-directory entries materialized.
	Leaves int
	// Directories is the number of directories traversed, including the
	// root.
	Directories int
}

type config struct {
	resolver vfs.Resolver
	workers  int
	logger   *slog.Logger
	stats    *Stats
}

func newConfig(opts []Option) *config {
	cfg := &config{
		resolver: vfs.DefaultResolver,
		workers:  1,
		logger:   slog.New(slog.DiscardHandler),
		stats:    &Stats{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithResolver sets the [vfs.Resolver] that anchors the returned entry at
// the physical root. Default is [vfs.DefaultResolver].
func WithResolver(resolver vfs.Resolver) Option {
	return func(c *config) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithWorkers sets the number of leaves materialized concurrently. Values
// less than 2 materialize one leaf after another.
func WithWorkers(workers int) Option {
	return func(c *config) {
		c.workers = max(workers, 1)
	}
}

// WithLogger sets the logger for debug messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStats sets the [Stats] that are filled during the run. They are
// filled even if the run fails.
func WithStats(stats *Stats) Option {
	return func(c *config) {
		if stats != nil {
			c.stats = stats
		}
	}
}
