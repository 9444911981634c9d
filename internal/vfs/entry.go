// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"context"
	"os"
)

// Entry is a node in a file tree.
type Entry interface {
	// Path returns the path of the entry within its tree.
	Path() string

	// IsDir reports whether the entry is a directory.
	IsDir() bool

	// Children enumerates the direct children of a directory entry. Each call
	// enumerates anew.
	Children() ([]Entry, error)

	// Materialize makes sure the entry exists on physical storage and returns
	// its absolute path there. Calling it repeatedly returns the same path.
	Materialize(ctx context.Context) (string, error)
}

// Resolver anchors a fresh [Entry] at a physical path.
type Resolver interface {
	Resolve(physicalPath string) (Entry, error)
}

// ResolverFunc is a function that implements [Resolver].
type ResolverFunc func(physicalPath string) (Entry, error)

// Resolve implements [Resolver].
func (f ResolverFunc) Resolve(physicalPath string) (Entry, error) {
	return f(physicalPath)
}

// DefaultResolver resolves physical paths with [Resolve].
var DefaultResolver Resolver = ResolverFunc(Resolve)

// Resolve returns a [PhysicalEntry] for the given path.
//
// On error the returned [Entry] is nil. Returning the result of [Physical]
// directly would wrap a nil *PhysicalEntry in a non-nil [Entry].
func Resolve(physicalPath string) (Entry, error) {
	entry, err := Physical(physicalPath)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

type identifier interface {
	identity() string
}

// Same reports whether both entries denote the same location.
//
// Entries of this package are compared by their physical identity. Two
// [PhysicalEntry] denoting the same file by different paths are the same.
// Other implementations are compared by their paths.
func Same(a, b Entry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	pa, okA := a.(*PhysicalEntry)
	pb, okB := b.(*PhysicalEntry)

	if okA && okB && pa.path != pb.path {
		return sameFile(pa.path, pb.path)
	}

	ia, okA := a.(identifier)
	ib, okB := b.(identifier)

	if okA && okB {
		return ia.identity() == ib.identity()
	}

	if okA != okB {
		return false
	}

	return a.Path() == b.Path()
}

func sameFile(a, b string) bool {
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}

	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}

	return os.SameFile(infoA, infoB)
}
