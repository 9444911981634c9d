// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"
)

const (
	dirPerm     fs.FileMode = 0o755
	filePerm    fs.FileMode = 0o644
	linkPerm    fs.FileMode = 0o777
	maxLinkHops             = 40
)

// FileOpenFunc returns an open [fs.File] or an error if opening fails.
type FileOpenFunc func() (fs.File, error)

// FSAdder is implemented by trees that can be populated, like [FS].
type FSAdder interface {
	Add(name string, openFn FileOpenFunc) error
	AddMode(name string, perm fs.FileMode, openFn FileOpenFunc) error
	Symlink(oldname, newname string) error
	Mkdir(name string) error
	MkdirAll(name string) error
}

var (
	_ fs.FS      = (*FS)(nil)
	_ ReadLinkFS = (*FS)(nil)
	_ FSAdder    = (*FS)(nil)
)

// FS is an in-memory file tree with directories, regular files and symbolic
// links.
//
// Nodes are stored by their canonical path, which is the path with all
// symbolic links of parent directories resolved. Parent directories must
// exist before anything is added below them.
//
// FS is safe for concurrent use.
type FS struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

// New creates a new [FS] that contains only the root directory.
func New() *FS {
	return &FS{
		nodes: map[string]*node{".": newDir()},
	}
}

// Open opens the named file. Symbolic links are followed.
func (fsys *FS) Open(name string) (fs.File, error) {
	file, err := fsys.open(name)
	if err != nil {
		return nil, &PathError{Op: "open", Path: name, Err: err}
	}

	return file, nil
}

// ReadLink returns the target of the named symbolic link. It returns
// [ErrInvalid] if the file is not a symbolic link.
func (fsys *FS) ReadLink(name string) (string, error) {
	fsys.mu.RLock()
	_, n, err := fsys.lookup(name, false)
	fsys.mu.RUnlock()

	if err == nil && n.mode.Type() != fs.ModeSymlink {
		err = ErrInvalid
	}

	if err != nil {
		return "", &PathError{Op: "readlink", Path: name, Err: err}
	}

	return n.target, nil
}

// Lstat returns information about the named file. A symbolic link is
// described itself, not its target.
func (fsys *FS) Lstat(name string) (fs.FileInfo, error) {
	fsys.mu.RLock()
	_, n, err := fsys.lookup(name, false)
	fsys.mu.RUnlock()

	var info fs.FileInfo
	if err == nil {
		info, err = n.stat(path.Base(name))
	}

	if err != nil {
		return nil, &PathError{Op: "lstat", Path: name, Err: err}
	}

	return info, nil
}

// Mkdir creates the named directory. The parent must exist.
func (fsys *FS) Mkdir(name string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err := fsys.insert(name, newDir())
	if err != nil {
		return &PathError{Op: "mkdir", Path: name, Err: err}
	}

	return nil
}

// MkdirAll creates the named directory along with any missing parents.
// Existing directories are fine, anything else in the way is
// [ErrNotDir].
func (fsys *FS) MkdirAll(name string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err := fsys.mkdirAll(name)
	if err != nil {
		return &PathError{Op: "mkdir", Path: name, Err: err}
	}

	return nil
}

// Add adds a regular file with permissions 0644. See [FS.AddMode].
func (fsys *FS) Add(name string, openFn FileOpenFunc) error {
	return fsys.AddMode(name, filePerm, openFn)
}

// AddMode adds a regular file with the given permissions. Its content is
// read from the file opened by openFn each time the file is opened.
func (fsys *FS) AddMode(name string, perm fs.FileMode, openFn FileOpenFunc) error {
	if openFn == nil {
		return &PathError{Op: "add", Path: name, Err: ErrNoOpenFunc}
	}

	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err := fsys.insert(name, newRegular(perm, openFn))
	if err != nil {
		return &PathError{Op: "add", Path: name, Err: err}
	}

	return nil
}

// Symlink creates newname as symbolic link to oldname. The target is stored
// as is and need not exist. Relative targets are resolved from the directory
// that contains the link.
func (fsys *FS) Symlink(oldname, newname string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	err := fsys.insert(newname, newSymlink(oldname))
	if err != nil {
		return &PathError{Op: "symlink", Path: newname, Err: err}
	}

	return nil
}

func (fsys *FS) open(name string) (fs.File, error) {
	fsys.mu.RLock()

	canonical, n, err := fsys.lookup(name, true)
	if err != nil {
		fsys.mu.RUnlock()
		return nil, err
	}

	info := fileInfo{name: path.Base(name), mode: n.mode}

	if n.mode.IsDir() {
		names := n.childNames()
		entries := make([]fs.DirEntry, 0, len(names))

		for _, child := range names {
			entries = append(entries, &dirEntry{
				name: child,
				node: fsys.nodes[path.Join(canonical, child)],
			})
		}

		fsys.mu.RUnlock()

		return &dirHandle{info: info, entries: entries}, nil
	}

	fsys.mu.RUnlock()

	file, source, err := n.openSource()
	if err != nil {
		return nil, err
	}

	info.size = source.Size()

	return &fileHandle{File: file, info: info}, nil
}

func (fsys *FS) mkdirAll(name string) error {
	if !fs.ValidPath(name) {
		return ErrInvalid
	}

	if name == "." {
		return nil
	}

	prefix := "."

	for segment := range strings.SplitSeq(name, "/") {
		prefix = path.Join(prefix, segment)

		_, n, err := fsys.lookup(prefix, true)

		switch {
		case err == nil && !n.mode.IsDir():
			return ErrNotDir
		case err == nil:
			continue
		case errors.Is(err, ErrNotExist):
			err = fsys.insert(prefix, newDir())
			if err != nil {
				return err
			}
		default:
			return err
		}
	}

	return nil
}

// insert adds the node at name. Caller must hold the write lock.
func (fsys *FS) insert(name string, n *node) error {
	if !fs.ValidPath(name) {
		return ErrInvalid
	}

	if name == "." {
		return ErrExist
	}

	parentPath, parent, err := fsys.lookup(path.Dir(name), true)
	if err != nil {
		return err
	}

	if !parent.mode.IsDir() {
		return ErrNotDir
	}

	base := path.Base(name)
	canonical := path.Join(parentPath, base)

	if _, exists := fsys.nodes[canonical]; exists {
		return ErrExist
	}

	fsys.nodes[canonical] = n
	parent.children[base] = struct{}{}

	return nil
}

// lookup resolves name to its canonical path and node. Symbolic links in
// parent directories are always followed, a link as last element only if
// followLast is set. Caller must hold a lock.
func (fsys *FS) lookup(name string, followLast bool) (string, *node, error) {
	if !fs.ValidPath(name) {
		return "", nil, ErrInvalid
	}

	hops := 0

	return fsys.resolve(name, followLast, &hops)
}

func (fsys *FS) resolve(name string, followLast bool, hops *int) (string, *node, error) {
	current := "."
	n := fsys.nodes[current]

	if name == "." {
		return current, n, nil
	}

	segments := strings.Split(name, "/")

	for idx, segment := range segments {
		if !n.mode.IsDir() {
			return "", nil, ErrNotDir
		}

		next := path.Join(current, segment)

		child, exists := fsys.nodes[next]
		if !exists {
			return "", nil, ErrNotExist
		}

		isLast := idx == len(segments)-1

		if child.mode.Type() == fs.ModeSymlink && (followLast || !isLast) {
			*hops++
			if *hops > maxLinkHops {
				return "", nil, ErrLinkLoop
			}

			var err error

			next, child, err = fsys.resolve(LinkTarget(current, child.target), true, hops)
			if err != nil {
				return "", nil, err
			}
		}

		current, n = next, child
	}

	return current, n, nil
}

// LinkTarget returns the tree path a link in dir with the given target points
// to. Absolute targets start at the root of the tree. Targets never leave the
// tree, excess ".." elements are dropped.
func LinkTarget(dir, target string) string {
	if !path.IsAbs(target) {
		target = path.Join("/", dir, target)
	}

	cleaned := strings.TrimPrefix(path.Clean(target), "/")
	if cleaned == "" {
		return "."
	}

	return cleaned
}
