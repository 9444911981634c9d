// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

var _ Entry = (*PhysicalEntry)(nil)

// PhysicalEntry is an [Entry] backed by the local file system.
type PhysicalEntry struct {
	path string
	mode fs.FileMode
}

// Physical returns a [PhysicalEntry] for the given absolute path.
//
// If the path itself is a symbolic link, it is followed. Symbolic links
// further down the tree are treated as leaves.
func Physical(path string) (*PhysicalEntry, error) {
	if !filepath.IsAbs(path) {
		return nil, &PathError{
			Op:   "resolve",
			Path: path,
			Err:  ErrNotPhysical,
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &PhysicalEntry{
		path: filepath.Clean(path),
		mode: info.Mode(),
	}, nil
}

// Path implements [Entry]. It is the absolute path of the file.
func (e *PhysicalEntry) Path() string {
	return e.path
}

// IsDir implements [Entry].
func (e *PhysicalEntry) IsDir() bool {
	return e.mode.IsDir()
}

// Children implements [Entry].
func (e *PhysicalEntry) Children() ([]Entry, error) {
	if !e.IsDir() {
		return nil, &PathError{
			Op:   "readdir",
			Path: e.path,
			Err:  ErrNotDir,
		}
	}

	dirEntries, err := os.ReadDir(e.path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	children := make([]Entry, 0, len(dirEntries))

	for _, dirEntry := range dirEntries {
		children = append(children, &PhysicalEntry{
			path: filepath.Join(e.path, dirEntry.Name()),
			mode: dirEntry.Type(),
		})
	}

	return children, nil
}

// Materialize implements [Entry]. The file exists already, so it only
// verifies it is still present.
func (e *PhysicalEntry) Materialize(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err //nolint:wrapcheck
	}

	_, err := os.Lstat(e.path)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return e.path, nil
}

func (e *PhysicalEntry) identity() string {
	return "file:" + e.path
}
