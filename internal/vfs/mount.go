// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/aibor/explode/internal/virtfs"
	"golang.org/x/sync/singleflight"
)

// MountOption configures a [MountFS].
type MountOption func(*MountFS)

// WithVerify enables verification of copied files. After a file is copied
// into the staging directory, its source is read again and the digests of
// both are compared. A mismatch fails the materialization with
// [ErrDigestMismatch].
func WithVerify(verify bool) MountOption {
	return func(m *MountFS) {
		m.verify = verify
	}
}

// WithPreserveMode applies the permission bits of the source files to the
// materialized files. Without it, files are created with mode 0644.
func WithPreserveMode(preserve bool) MountOption {
	return func(m *MountFS) {
		m.preserveMode = preserve
	}
}

// WithLogger sets the logger used for debug messages.
func WithLogger(logger *slog.Logger) MountOption {
	return func(m *MountFS) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// MountFS maps the file tree of a [fs.FS] onto a staging directory on the
// local file system.
//
// The entry with the name "a/b" materializes at "<staging>/a/b". It is safe
// for concurrent use as long as the underlying [fs.FS] is.
type MountFS struct {
	fsys         fs.FS
	staging      string
	verify       bool
	preserveMode bool
	logger       *slog.Logger
	flights      singleflight.Group
}

// Mount creates a new [MountFS] for the given [fs.FS]. The staging directory
// is created if it does not exist.
func Mount(fsys fs.FS, staging string, opts ...MountOption) (*MountFS, error) {
	if fsys == nil {
		return nil, &PathError{
			Op:   "mount",
			Path: staging,
			Err:  fmt.Errorf("%w: fsys is nil", fs.ErrInvalid),
		}
	}

	absStaging, err := filepath.Abs(staging)
	if err != nil {
		return nil, fmt.Errorf("staging directory: %w", err)
	}

	err = os.MkdirAll(absStaging, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("staging directory: %w", err)
	}

	mount := &MountFS{
		fsys:    fsys,
		staging: absStaging,
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(mount)
	}

	return mount, nil
}

// Staging returns the absolute path of the staging directory.
func (m *MountFS) Staging() string {
	return m.staging
}

// Root returns the root directory entry.
func (m *MountFS) Root() *MountEntry {
	return &MountEntry{
		mount: m,
		name:  ".",
		mode:  fs.ModeDir,
	}
}

// Entry returns the entry with the given name.
//
// If name is a symbolic link, it is followed and the entry of the link's
// final target is returned. So the path of the returned entry may differ from
// name. Symbolic links below a directory entry are not followed.
func (m *MountFS) Entry(name string) (*MountEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &PathError{
			Op:   "entry",
			Path: name,
			Err:  ErrInvalidPath,
		}
	}

	for range maxLinkHops {
		info, err := virtfs.Lstat(m.fsys, name)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		if info.Mode().Type() != fs.ModeSymlink {
			return &MountEntry{
				mount: m,
				name:  name,
				mode:  info.Mode().Type(),
			}, nil
		}

		target, err := virtfs.ReadLink(m.fsys, name)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		name = virtfs.LinkTarget(path.Dir(name), target)
	}

	return nil, &PathError{
		Op:   "entry",
		Path: name,
		Err:  ErrLinkLoop,
	}
}

func (m *MountFS) physicalPath(name string) string {
	return filepath.Join(m.staging, filepath.FromSlash(name))
}

var _ Entry = (*MountEntry)(nil)

// MountEntry is an [Entry] of a [MountFS].
type MountEntry struct {
	mount *MountFS
	name  string
	mode  fs.FileMode
}

// Path implements [Entry]. It is the name of the entry in the mounted
// [fs.FS].
func (e *MountEntry) Path() string {
	return e.name
}

// IsDir implements [Entry].
func (e *MountEntry) IsDir() bool {
	return e.mode.IsDir()
}

// Children implements [Entry].
func (e *MountEntry) Children() ([]Entry, error) {
	if !e.IsDir() {
		return nil, &PathError{
			Op:   "readdir",
			Path: e.name,
			Err:  ErrNotDir,
		}
	}

	dirEntries, err := fs.ReadDir(e.mount.fsys, e.name)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	children := make([]Entry, 0, len(dirEntries))

	for _, dirEntry := range dirEntries {
		children = append(children, &MountEntry{
			mount: e.mount,
			name:  path.Join(e.name, dirEntry.Name()),
			mode:  dirEntry.Type(),
		})
	}

	return children, nil
}

// Materialize implements [Entry].
//
// Directories are created along with all their descendant directories.
// Regular files are copied into the staging directory. Symbolic links are
// created with their target rewritten to the same tree path inside the
// staging directory. Concurrent calls for the same entry share a
// single materialization.
func (e *MountEntry) Materialize(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err //nolint:wrapcheck
	}

	result, err, _ := e.mount.flights.Do(e.name, func() (any, error) {
		return e.materialize()
	})
	if err != nil {
		return "", &PathError{
			Op:   "materialize",
			Path: e.name,
			Err:  err,
		}
	}

	return result.(string), nil //nolint:forcetypeassert
}

func (e *MountEntry) materialize() (string, error) {
	dst := e.mount.physicalPath(e.name)

	var err error

	switch e.mode.Type() {
	case fs.ModeDir:
		err = e.mount.materializeDir(e.name)
	case fs.ModeSymlink:
		err = e.mount.materializeSymlink(e.name, dst)
	case 0:
		err = e.mount.materializeFile(e.name, dst)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedType, e.mode.Type())
	}

	if err != nil {
		return "", err
	}

	e.mount.logger.Debug("Materialized entry", slog.String("name", e.name), slog.String("path", dst))

	return dst, nil
}

func (e *MountEntry) identity() string {
	return fmt.Sprintf("mount:%p:%s", e.mount, e.name)
}
