// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package explode

import (
	"context"
	"log/slog"

	"github.com/aibor/explode/internal/vfs"
	"golang.org/x/sync/errgroup"
)

// Explode materializes the given root entry and, if it is a directory, all
// of its descendants on physical storage.
//
// It returns a new entry anchored at the physical location of root, as
// returned by the configured [vfs.Resolver]. Empty directories are not
// materialized individually but are created along with their parent.
// The first failing entry aborts the run with an [IOError] naming that entry.
// Files already materialized are left in place.
func Explode(ctx context.Context, root vfs.Entry, opts ...Option) (vfs.Entry, error) {
	if root == nil {
		return nil, &IOError{Err: ErrNilEntry}
	}

	cfg := newConfig(opts)

	if root.IsDir() {
		err := materializeTree(ctx, root, cfg)
		if err != nil {
			return nil, err
		}
	}

	physicalPath, err := root.Materialize(ctx)
	if err != nil {
		return nil, &IOError{Path: root.Path(), Err: err}
	}

	exploded, err := cfg.resolver.Resolve(physicalPath)
	if err != nil {
		return nil, &IOError{Path: physicalPath, Err: err}
	}

	cfg.logger.Debug("Exploded",
		slog.String("root", root.Path()),
		slog.String("path", physicalPath),
		slog.Int("leaves", cfg.stats.Leaves),
		slog.Int("directories", cfg.stats.Directories),
	)

	return exploded, nil
}

// Root runs [Explode] and reports whether the exploded root is a different
// location than the given root. If it is not, the root was physical already.
func Root(ctx context.Context, root vfs.Entry, opts ...Option) (vfs.Entry, bool, error) {
	exploded, err := Explode(ctx, root, opts...)
	if err != nil {
		return nil, false, err
	}

	return exploded, !vfs.Same(root, exploded), nil
}

func materializeTree(ctx context.Context, root vfs.Entry, cfg *config) error {
	if cfg.workers < 2 {
		return walkLeaves(ctx, root, cfg.stats, func(leaf vfs.Entry) error {
			return materializeLeaf(ctx, leaf, cfg.logger)
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.workers)

	walkErr := walkLeaves(groupCtx, root, cfg.stats, func(leaf vfs.Entry) error {
		group.Go(func() error {
			return materializeLeaf(groupCtx, leaf, cfg.logger)
		})

		return nil
	})
	if walkErr != nil {
		cancel()
	}

	// Errors of the workers take precedence as they caused the walk to stop.
	err := group.Wait()
	if err != nil {
		return err //nolint:wrapcheck
	}

	return walkErr
}

// walkLeaves calls visit for every non-directory entry below root. The
// context is checked before each leaf.
func walkLeaves(
	ctx context.Context,
	root vfs.Entry,
	stats *Stats,
	visit func(vfs.Entry) error,
) error {
	stack := []vfs.Entry{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := dir.Children()
		if err != nil {
			return &IOError{Path: dir.Path(), Err: err}
		}

		stats.Directories++

		for _, child := range children {
			if child.IsDir() {
				stack = append(stack, child)
				continue
			}

			err := ctx.Err()
			if err != nil {
				return &IOError{Path: child.Path(), Err: err}
			}

			stats.Leaves++

			err = visit(child)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func materializeLeaf(ctx context.Context, leaf vfs.Entry, logger *slog.Logger) error {
	physicalPath, err := leaf.Materialize(ctx)
	if err != nil {
		return &IOError{Path: leaf.Path(), Err: err}
	}

	logger.Debug("Materialized",
		slog.String("entry", leaf.Path()),
		slog.String("path", physicalPath),
	)

	return nil
}
