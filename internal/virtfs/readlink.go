// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import "io/fs"

// ReadLinkFS is a [fs.FS] with additional methods for reading the target of
// a symbolic link and for file information that does not follow links.
//
// Replace with [fs.ReadLinkFS] once the minimum Go version is 1.25.
type ReadLinkFS interface {
	fs.FS

	ReadLink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)
}

// ReadLink returns the destination the symbolic link with the given name
// points to.
//
// The given [fs.FS] must implement [ReadLinkFS], otherwise [ErrInvalid] is
// returned.
func ReadLink(fsys fs.FS, name string) (string, error) {
	rlFS, ok := fsys.(ReadLinkFS)
	if !ok {
		return "", &PathError{
			Op:   "readlink",
			Path: name,
			Err:  ErrInvalid,
		}
	}

	return rlFS.ReadLink(name) //nolint:wrapcheck
}

// Lstat returns the [fs.FileInfo] for the given name. If the [fs.FS]
// implements [ReadLinkFS] symbolic links are not followed. Otherwise it falls
// back to [fs.Stat].
func Lstat(fsys fs.FS, name string) (fs.FileInfo, error) {
	rlFS, ok := fsys.(ReadLinkFS)
	if !ok {
		return fs.Stat(fsys, name) //nolint:wrapcheck
	}

	return rlFS.Lstat(name) //nolint:wrapcheck
}
