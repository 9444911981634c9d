// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !linux

package vfs

import (
	"os"
)

// commit moves the file at tmpPath to dst. Unless replace is set, an existing
// dst is kept and tmpPath is discarded.
func commit(tmpPath, dst string, replace bool) error {
	if !replace {
		if _, err := os.Lstat(dst); err == nil {
			_ = os.Remove(tmpPath)
			return nil
		}
	}

	err := os.Rename(tmpPath, dst)
	if err != nil {
		_ = os.Remove(tmpPath)
		return err //nolint:wrapcheck
	}

	return nil
}
