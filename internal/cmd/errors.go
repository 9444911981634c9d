// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
)

var (
	// ErrHelp is returned when help or the version is requested.
	ErrHelp = flag.ErrHelp

	ErrReadBuildInfo = errors.New("failed to read build info")
	ErrEmptyFilePath = errors.New("file path must not be empty")
	ErrNoRoot        = errors.New("no root given")
	ErrTooManyRoots  = errors.New("only one root allowed")
	ErrInvalidFormat = errors.New("unknown log format")

	// ErrNotDir is returned if -pack is used with a root that is not a
	// directory.
	ErrNotDir = errors.New("not a directory")

	// ErrUnsupportedRoot is returned if the root is neither a directory nor a
	// regular file.
	ErrUnsupportedRoot = errors.New("root must be a directory or a regular file")
)

// UsageError is returned if the command line can not be used. The error and
// the usage have been printed already.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return "usage: " + e.Err.Error()
}

// Is matches any [UsageError].
func (*UsageError) Is(other error) bool {
	_, ok := other.(*UsageError)
	return ok
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
