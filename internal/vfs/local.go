// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aibor/explode/internal/virtfs"
)

var _ virtfs.ReadLinkFS = (*LocalFS)(nil)

// LocalFS is a [fs.FS] for a directory tree on the local file system, like
// [os.DirFS]. Unlike [os.DirFS] it implements [virtfs.ReadLinkFS], so
// symbolic links can be read instead of followed.
type LocalFS struct {
	fs.FS

	dir string
}

// Local returns a [LocalFS] for the tree rooted at dir.
func Local(dir string) *LocalFS {
	return &LocalFS{
		FS:  os.DirFS(dir),
		dir: dir,
	}
}

// ReadLink implements [virtfs.ReadLinkFS].
func (l *LocalFS) ReadLink(name string) (string, error) {
	path, err := l.join("readlink", name)
	if err != nil {
		return "", err
	}

	return os.Readlink(path) //nolint:wrapcheck
}

// Lstat implements [virtfs.ReadLinkFS].
func (l *LocalFS) Lstat(name string) (fs.FileInfo, error) {
	path, err := l.join("lstat", name)
	if err != nil {
		return nil, err
	}

	return os.Lstat(path) //nolint:wrapcheck
}

func (l *LocalFS) join(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &PathError{
			Op:   op,
			Path: name,
			Err:  ErrInvalidPath,
		}
	}

	return filepath.Join(l.dir, filepath.FromSlash(name)), nil
}
