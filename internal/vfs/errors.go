// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotPhysical is returned if a path is expected to be an absolute path
	// on the local file system but is not.
	ErrNotPhysical = errors.New("not a physical path")

	// ErrInvalidPath is returned if a name is not a valid [fs.FS] path.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnsupportedType is returned for file types that can not be
	// materialized, like devices or named pipes.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNotDir is returned if children of a non-directory are requested.
	ErrNotDir = errors.New("not a directory")

	// ErrDigestMismatch is returned if a copied file does not match its
	// source.
	ErrDigestMismatch = errors.New("digest mismatch")

	// ErrLinkLoop is returned if resolving a symbolic link does not end.
	ErrLinkLoop = errors.New("too many levels of symbolic links")
)

// PathError records an error and the operation and file path that caused it.
type PathError = fs.PathError
