// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package explode

import (
	"errors"
	"fmt"
)

// ErrNilEntry is returned if the root entry is nil.
var ErrNilEntry = errors.New("entry is nil")

// IOError is returned if an entry can not be materialized or the physical
// root can not be resolved.
type IOError struct {
	// Path of the entry in its tree, or the physical path if resolving
	// failed.
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("explode %s: %v", e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*IOError) Is(other error) bool {
	_, ok := other.(*IOError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *IOError) Unwrap() error {
	return e.Err
}
