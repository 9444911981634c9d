// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package explode_test

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/aibor/explode/internal/explode"
	"github.com/aibor/explode/internal/vfs"
	"github.com/aibor/explode/internal/virtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountTree(t *testing.T, build func(fsys *virtfs.FS)) *vfs.MountFS {
	t.Helper()

	fsys := virtfs.New()
	build(fsys)

	mount, err := vfs.Mount(fsys, t.TempDir())
	require.NoError(t, err)

	return mount
}

func listTree(t *testing.T, root string) []string {
	t.Helper()

	var names []string

	err := filepath.WalkDir(root, func(name string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, name)
		if err != nil {
			return err
		}

		names = append(names, filepath.ToSlash(rel))

		return nil
	})
	require.NoError(t, err)

	return names
}

func TestExplodeApp(t *testing.T) {
	mount := mountTree(t, func(fsys *virtfs.FS) {
		require.NoError(t, fsys.MkdirAll("app/config"))
		require.NoError(t, fsys.MkdirAll("app/lib"))
		require.NoError(t, fsys.Add("app/config/settings.txt", virtfs.Bytes([]byte("0123456789"))))
	})

	app, err := mount.Entry("app")
	require.NoError(t, err)

	var stats explode.Stats

	exploded, changed, err := explode.Root(t.Context(), app, explode.WithStats(&stats))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, explode.Stats{Leaves: 1, Directories: 3}, stats)

	physicalRoot := exploded.Path()
	assert.Equal(t, filepath.Join(mount.Staging(), "app"), physicalRoot)
	assert.True(t, exploded.IsDir())
	assert.IsType(t, &vfs.PhysicalEntry{}, exploded)

	content, err := os.ReadFile(filepath.Join(physicalRoot, "config", "settings.txt"))
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(content))

	libEntries, err := os.ReadDir(filepath.Join(physicalRoot, "lib"))
	require.NoError(t, err)
	assert.Empty(t, libEntries)
}

func TestExplodeSingleFile(t *testing.T) {
	mount := mountTree(t, func(fsys *virtfs.FS) {
		require.NoError(t, fsys.Add("readme.txt", virtfs.Bytes([]byte("read me"))))
	})

	readme, err := mount.Entry("readme.txt")
	require.NoError(t, err)

	exploded, err := explode.Explode(t.Context(), readme)
	require.NoError(t, err)
	assert.False(t, exploded.IsDir())

	content, err := os.ReadFile(exploded.Path())
	require.NoError(t, err)
	assert.Equal(t, "read me", string(content))

	t.Run("no traversal", func(t *testing.T) {
		file := fakeFile("readme.txt")

		_, err := explode.Explode(t.Context(), file, explode.WithResolver(fakeResolver))
		require.NoError(t, err)
		assert.EqualValues(t, 0, file.listed.Load())
		assert.EqualValues(t, 1, file.materialized.Load())
	})
}

func TestExplodePhysical(t *testing.T) {
	data := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(data, "sub", "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "a"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "sub", "b"), []byte("b"), 0o644))

	before := listTree(t, data)

	root, err := vfs.Physical(data)
	require.NoError(t, err)

	exploded, changed, err := explode.Root(t.Context(), root)
	require.NoError(t, err)
	assert.False(t, changed, "no explosion needed")
	assert.Equal(t, data, exploded.Path())
	assert.True(t, vfs.Same(root, exploded))
	assert.Equal(t, before, listTree(t, data), "no files created")
}

func TestExplodeNested(t *testing.T) {
	const (
		numDirs  = 5
		numFiles = 4
	)

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers %d", workers), func(t *testing.T) {
			mount := mountTree(t, func(fsys *virtfs.FS) {
				dir := ""
				for d := range numDirs {
					dir = path.Join(dir, fmt.Sprintf("d%d", d))
					require.NoError(t, fsys.MkdirAll(dir))

					for f := range numFiles {
						name := path.Join(dir, fmt.Sprintf("f%d", f))
						require.NoError(t, fsys.Add(name, virtfs.Bytes([]byte(name))))
					}
				}
			})

			var stats explode.Stats

			exploded, err := explode.Explode(t.Context(), mount.Root(),
				explode.WithWorkers(workers),
				explode.WithStats(&stats),
			)
			require.NoError(t, err)
			assert.Equal(t, mount.Staging(), exploded.Path())
			assert.Equal(t, numDirs*numFiles, stats.Leaves)
			assert.Equal(t, numDirs+1, stats.Directories)

			dir := ""
			for d := range numDirs {
				dir = path.Join(dir, fmt.Sprintf("d%d", d))

				for f := range numFiles {
					name := path.Join(dir, fmt.Sprintf("f%d", f))

					content, err := os.ReadFile(filepath.Join(exploded.Path(), filepath.FromSlash(name)))
					require.NoError(t, err)
					assert.Equal(t, name, string(content))
				}
			}
		})
	}
}

func TestExplodeIdempotent(t *testing.T) {
	mount := mountTree(t, func(fsys *virtfs.FS) {
		require.NoError(t, fsys.MkdirAll("app/lib"))
		require.NoError(t, fsys.Add("app/file", virtfs.Bytes([]byte("content"))))
		require.NoError(t, fsys.Symlink("file", "app/link"))
	})

	first, err := explode.Explode(t.Context(), mount.Root())
	require.NoError(t, err)

	firstTree := listTree(t, first.Path())

	second, err := explode.Explode(t.Context(), mount.Root())
	require.NoError(t, err)

	assert.Equal(t, first.Path(), second.Path())
	assert.True(t, vfs.Same(first, second))
	assert.Equal(t, firstTree, listTree(t, second.Path()))

	content, err := os.ReadFile(filepath.Join(second.Path(), "app", "link"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
}

func TestExplodeLinkedRoot(t *testing.T) {
	mount := mountTree(t, func(fsys *virtfs.FS) {
		require.NoError(t, fsys.MkdirAll("app"))
		require.NoError(t, fsys.Add("app/f", virtfs.Bytes([]byte("content"))))
		require.NoError(t, fsys.Symlink("app", "link"))
	})

	root, err := mount.Entry("link")
	require.NoError(t, err)

	exploded, err := explode.Explode(t.Context(), root)
	require.NoError(t, err)
	assert.True(t, exploded.IsDir())
	assert.Equal(t, filepath.Join(mount.Staging(), "app"), exploded.Path())

	content, err := os.ReadFile(filepath.Join(exploded.Path(), "f"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
}

func TestExplodeEmptyTree(t *testing.T) {
	mount := mountTree(t, func(fsys *virtfs.FS) {
		require.NoError(t, fsys.MkdirAll("a/b/c"))
	})

	var stats explode.Stats

	exploded, err := explode.Explode(t.Context(), mount.Root(), explode.WithStats(&stats))
	require.NoError(t, err)
	assert.Zero(t, stats.Leaves)
	assert.DirExists(t, filepath.Join(exploded.Path(), "a", "b", "c"))
}

func TestExplodeErrors(t *testing.T) {
	t.Run("nil root", func(t *testing.T) {
		_, err := explode.Explode(t.Context(), nil)
		require.ErrorIs(t, err, explode.ErrNilEntry)
	})

	t.Run("failing leaf", func(t *testing.T) {
		bad := fakeFile("app/bad")
		bad.err = assert.AnError

		root := fakeDir("app",
			fakeFile("app/a"),
			fakeDir("app/sub", bad),
		)

		exploded, err := explode.Explode(t.Context(), root, explode.WithResolver(fakeResolver))
		require.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, exploded)

		var ioErr *explode.IOError

		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "app/bad", ioErr.Path)
		assert.EqualValues(t, 0, root.materialized.Load(), "root not materialized")
	})

	t.Run("failing children", func(t *testing.T) {
		sub := fakeDir("app/sub")
		sub.err = assert.AnError

		_, err := explode.Explode(t.Context(), fakeDir("app", sub))
		require.ErrorIs(t, err, assert.AnError)

		var ioErr *explode.IOError

		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "app/sub", ioErr.Path)
	})

	t.Run("failing root", func(t *testing.T) {
		file := fakeFile("readme.txt")
		file.err = assert.AnError

		_, err := explode.Explode(t.Context(), file)
		require.ErrorIs(t, err, &explode.IOError{})

		var ioErr *explode.IOError

		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "readme.txt", ioErr.Path)
	})

	t.Run("failing resolve", func(t *testing.T) {
		resolver := vfs.ResolverFunc(func(string) (vfs.Entry, error) {
			return nil, assert.AnError
		})

		_, err := explode.Explode(t.Context(), fakeDir("app"), explode.WithResolver(resolver))
		require.ErrorIs(t, err, assert.AnError)

		var ioErr *explode.IOError

		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "/physical/app", ioErr.Path)
	})

	t.Run("default resolver", func(t *testing.T) {
		_, err := explode.Explode(t.Context(), fakeDir("app"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestExplodeParallelFailFast(t *testing.T) {
	leaves := make([]*fakeEntry, 0, 100)

	for idx := range 100 {
		leaves = append(leaves, fakeFile(fmt.Sprintf("app/f%03d", idx)))
	}

	leaves[10].err = assert.AnError

	root := fakeDir("app", leaves...)

	_, err := explode.Explode(t.Context(), root,
		explode.WithWorkers(4),
		explode.WithResolver(fakeResolver),
	)
	require.ErrorIs(t, err, assert.AnError)

	var ioErr *explode.IOError

	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "app/f010", ioErr.Path)
	assert.EqualValues(t, 0, root.materialized.Load(), "root not materialized")
}

func TestExplodeCancel(t *testing.T) {
	t.Run("before", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		root := fakeDir("app", fakeFile("app/a"))

		_, err := explode.Explode(ctx, root, explode.WithResolver(fakeResolver))
		require.ErrorIs(t, err, context.Canceled)

		var ioErr *explode.IOError

		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "app/a", ioErr.Path)
	})

	t.Run("between leaves", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		first := fakeFile("app/a")
		first.onMaterialize = cancel

		root := fakeDir("app", first, fakeFile("app/b"), fakeFile("app/c"))

		_, err := explode.Explode(ctx, root, explode.WithResolver(fakeResolver))
		require.ErrorIs(t, err, context.Canceled)

		var ioErr *explode.IOError

		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "app/b", ioErr.Path)

		var materialized int32

		root.walk(func(e *fakeEntry) {
			materialized += e.materialized.Load()
		})
		assert.EqualValues(t, 1, materialized)
	})
}
