// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux

package vfs

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// commit moves the file at tmpPath to dst. Unless replace is set, an existing
// dst is kept and tmpPath is discarded.
func commit(tmpPath, dst string, replace bool) error {
	if replace {
		return rename(tmpPath, dst)
	}

	err := unix.Renameat2(unix.AT_FDCWD, tmpPath, unix.AT_FDCWD, dst, unix.RENAME_NOREPLACE)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EEXIST):
		_ = os.Remove(tmpPath)
		return nil
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOSYS):
		// File system does not support RENAME_NOREPLACE.
		return rename(tmpPath, dst)
	default:
		_ = os.Remove(tmpPath)

		return &os.LinkError{
			Op:  "renameat2",
			Old: tmpPath,
			New: dst,
			Err: err,
		}
	}
}

func rename(tmpPath, dst string) error {
	err := os.Rename(tmpPath, dst)
	if err != nil {
		_ = os.Remove(tmpPath)
		return err //nolint:wrapcheck
	}

	return nil
}
