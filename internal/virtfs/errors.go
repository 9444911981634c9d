// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"errors"
	"io/fs"
)

var (
	ErrNotExist = fs.ErrNotExist
	ErrExist    = fs.ErrExist
	ErrInvalid  = fs.ErrInvalid

	// ErrNotDir is returned if a path element that must be a directory is
	// something else.
	ErrNotDir = errors.New("not a directory")

	// ErrIsDir is returned when reading content from a directory.
	ErrIsDir = errors.New("is a directory")

	// ErrNotRegular is returned if a [FileOpenFunc] opens anything but a
	// regular file.
	ErrNotRegular = errors.New("source is not a regular file")

	// ErrLinkLoop is returned if resolving a path hits too many symbolic
	// links.
	ErrLinkLoop = errors.New("too many levels of symbolic links")

	// ErrNoOpenFunc is returned if a regular file is added without
	// [FileOpenFunc].
	ErrNoOpenFunc = errors.New("missing open func")
)

// PathError records an error and the operation and file path that caused it.
type PathError = fs.PathError
