// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/explode/internal/archive"
	"github.com/aibor/explode/internal/explode"
	"github.com/aibor/explode/internal/vfs"
)

const tempDirPattern = "explode-"

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	args, err := CollectArgs(args, os.DirFS("."))
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func openRoot(flags *flags, logger *slog.Logger) (vfs.Entry, error) {
	info, err := os.Stat(flags.Root)
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}

	if info.IsDir() {
		return vfs.Physical(flags.Root) //nolint:wrapcheck
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRoot, flags.Root)
	}

	fsys, err := archive.Open(flags.Root)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	dest := flags.Dest
	if dest == "" {
		dest, err = os.MkdirTemp("", tempDirPattern)
		if err != nil {
			return nil, fmt.Errorf("create destination: %w", err)
		}
	}

	logger.Debug("Mount archive",
		slog.String("archive", flags.Root),
		slog.String("dest", dest),
	)

	mount, err := vfs.Mount(fsys, dest,
		vfs.WithVerify(flags.Verify),
		vfs.WithPreserveMode(flags.PreserveMode),
		vfs.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("mount archive: %w", err)
	}

	return mount.Root(), nil
}

func pack(flags *flags, logger *slog.Logger) error {
	info, err := os.Stat(flags.Root)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDir, flags.Root)
	}

	compression := archive.CompressionNone
	if flags.Zstd {
		compression = archive.CompressionZstd
	}

	err = archive.WriteFile(flags.Pack, vfs.Local(flags.Root), compression)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	logger.Debug("Archive written",
		slog.String("path", flags.Pack),
		slog.String("compression", compression.String()),
	)

	return nil
}

func run(ctx context.Context, flags *flags, cfg IO, logger *slog.Logger) error {
	if flags.Pack != "" {
		return pack(flags, logger)
	}

	root, err := openRoot(flags, logger)
	if err != nil {
		return err
	}

	var stats explode.Stats

	exploded, changed, err := explode.Root(ctx, root,
		explode.WithWorkers(flags.Workers),
		explode.WithLogger(logger),
		explode.WithStats(&stats),
	)
	if err != nil {
		return err //nolint:wrapcheck
	}

	logger.Debug("Root exploded",
		slog.String("path", exploded.Path()),
		slog.Bool("changed", changed),
		slog.Int("files", stats.Leaves),
		slog.Int("directories", stats.Directories),
	)

	fmt.Fprintln(cfg.Stdout, exploded.Path())

	return nil
}

func handleUsageError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// Usage errors are printed already.
	if !errors.Is(err, &UsageError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error, logger *slog.Logger) int {
	var ioErr *explode.IOError
	if errors.As(err, &ioErr) {
		logger.Error("Explode failed",
			slog.String("entry", ioErr.Path),
			slog.Any("error", ioErr.Err),
		)

		return -1
	}

	logger.Error(err.Error())

	return -1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleUsageError(err)
	}

	logger := newLogger(cfg.Stderr, flags.LogFormat, flags.Debug)

	err = run(ctx, flags, cfg, logger)
	if err != nil {
		return handleRunError(err, logger)
	}

	return 0
}
