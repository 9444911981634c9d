// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package explode_test

import (
	"context"
	"path"
	"sync/atomic"

	"github.com/aibor/explode/internal/vfs"
)

// fakeEntry records how it is used. Leaves fail with err, if set.
type fakeEntry struct {
	path          string
	dir           bool
	children      []*fakeEntry
	err           error
	onMaterialize func()

	listed       atomic.Int32
	materialized atomic.Int32
}

func fakeDir(name string, children ...*fakeEntry) *fakeEntry {
	return &fakeEntry{path: name, dir: true, children: children}
}

func fakeFile(name string) *fakeEntry {
	return &fakeEntry{path: name}
}

func (e *fakeEntry) Path() string { return e.path }
func (e *fakeEntry) IsDir() bool  { return e.dir }

func (e *fakeEntry) Children() ([]vfs.Entry, error) {
	e.listed.Add(1)

	if e.err != nil {
		return nil, e.err
	}

	children := make([]vfs.Entry, 0, len(e.children))
	for _, child := range e.children {
		children = append(children, child)
	}

	return children, nil
}

func (e *fakeEntry) Materialize(_ context.Context) (string, error) {
	e.materialized.Add(1)

	if e.onMaterialize != nil {
		e.onMaterialize()
	}

	if e.err != nil {
		return "", e.err
	}

	return path.Join("/physical", e.path), nil
}

// walk calls fn for the entry and all its descendants.
func (e *fakeEntry) walk(fn func(*fakeEntry)) {
	fn(e)

	for _, child := range e.children {
		child.walk(fn)
	}
}

var fakeResolver = vfs.ResolverFunc(func(physicalPath string) (vfs.Entry, error) {
	return &fakeEntry{path: physicalPath, dir: true}, nil
})
