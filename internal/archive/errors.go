// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEntry is returned if an archive entry name is written
	// twice.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrFileTooLarge is returned if a regular file in an archive exceeds the
	// configured maximum size.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidPath is returned if an archive entry has a name that can not
	// be represented in a file tree.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotRegularFile is returned if a source is not a regular file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrUnsupportedType is returned for archive entries of types that are
	// not supported, like devices or named pipes.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Error wraps errors occurring while reading or writing an archive.
type Error struct {
	Op   string
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("archive %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("archive %s %s: %v", e.Op, e.Path, e.Err)
}

// Is implements the [errors.Is] interface. Errors match if the targets Op
// is empty or equal.
func (e *Error) Is(other error) bool {
	otherErr, ok := other.(*Error)
	if !ok {
		return false
	}

	return otherErr.Op == "" || otherErr.Op == e.Op
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}
