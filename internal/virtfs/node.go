// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"io"
	"io/fs"
	"maps"
	"slices"
	"time"
)

// node is a single element of the tree. Exactly one of openFn, target or
// children is used, depending on the type bits of mode.
type node struct {
	mode     fs.FileMode
	openFn   FileOpenFunc
	target   string
	children map[string]struct{}
}

func newDir() *node {
	return &node{
		mode:     fs.ModeDir | dirPerm,
		children: make(map[string]struct{}),
	}
}

func newRegular(perm fs.FileMode, openFn FileOpenFunc) *node {
	return &node{mode: perm.Perm(), openFn: openFn}
}

func newSymlink(target string) *node {
	return &node{mode: fs.ModeSymlink | linkPerm, target: target}
}

func (n *node) childNames() []string {
	return slices.Sorted(maps.Keys(n.children))
}

// openSource opens the backing file of a regular node and makes sure it
// really is a regular file.
func (n *node) openSource() (fs.File, fs.FileInfo, error) {
	file, err := n.openFn()
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err //nolint:wrapcheck
	}

	if !info.Mode().IsRegular() {
		_ = file.Close()
		return nil, nil, ErrNotRegular
	}

	return file, info, nil
}

// stat returns the info of the node itself, without following links.
func (n *node) stat(name string) (fs.FileInfo, error) {
	info := &fileInfo{name: name, mode: n.mode}

	switch n.mode.Type() {
	case fs.ModeSymlink:
		info.size = int64(len(n.target))
	case 0:
		file, source, err := n.openSource()
		if err != nil {
			return nil, err
		}

		_ = file.Close()
		info.size = source.Size()
	}

	return info, nil
}

var _ fs.FileInfo = (*fileInfo)(nil)

type fileInfo struct {
	name string
	mode fs.FileMode
	size int64
}

func (i *fileInfo) Name() string      { return i.name }
func (i *fileInfo) Size() int64       { return i.size }
func (i *fileInfo) Mode() fs.FileMode { return i.mode }
func (*fileInfo) ModTime() time.Time  { return time.Time{} }
func (i *fileInfo) IsDir() bool       { return i.mode.IsDir() }
func (*fileInfo) Sys() any            { return nil }
func (i *fileInfo) String() string    { return fs.FormatFileInfo(i) }

var _ fs.DirEntry = (*dirEntry)(nil)

// dirEntry is a directory listing element. Its info is computed on demand,
// as the size of regular files is only known once the source is opened.
type dirEntry struct {
	name string
	node *node
}

func (e *dirEntry) Name() string               { return e.name }
func (e *dirEntry) IsDir() bool                { return e.node.mode.IsDir() }
func (e *dirEntry) Type() fs.FileMode          { return e.node.mode.Type() }
func (e *dirEntry) Info() (fs.FileInfo, error) { return e.node.stat(e.name) }
func (e *dirEntry) String() string             { return fs.FormatDirEntry(e) }

var _ fs.ReadDirFile = (*dirHandle)(nil)

// dirHandle is an open directory. The listing is taken when the directory is
// opened.
type dirHandle struct {
	info    fileInfo
	entries []fs.DirEntry
	offset  int
}

func (d *dirHandle) Stat() (fs.FileInfo, error) { return &d.info, nil }
func (*dirHandle) Read([]byte) (int, error)     { return 0, ErrIsDir }
func (*dirHandle) Close() error                 { return nil }

// ReadDir implements [fs.ReadDirFile].
func (d *dirHandle) ReadDir(count int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]

	if count <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}

	if len(rest) == 0 {
		return nil, io.EOF
	}

	rest = rest[:min(count, len(rest))]
	d.offset += len(rest)

	return rest, nil
}

var _ fs.File = (*fileHandle)(nil)

// fileHandle is an open regular file. Content is read from the source file
// returned by the node's [FileOpenFunc].
type fileHandle struct {
	fs.File

	info fileInfo
}

func (f *fileHandle) Stat() (fs.FileInfo, error) { return &f.info, nil }
