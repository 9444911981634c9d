// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io/fs"

	"github.com/aibor/explode/internal/virtfs"
)

// Writer defines the archive writer interface.
type Writer interface {
	WriteRegular(path string, source fs.File, mode fs.FileMode) error
	WriteDirectory(path string, mode fs.FileMode) error
	WriteLink(path, target string) error
}

// WriteFS writes all entries of the given [fs.FS] to the given [Writer].
//
// Entries are written in lexical order, so directories always precede their
// content. The root directory itself is not written. Symbolic links are
// written as links, if the [fs.FS] implements [virtfs.ReadLinkFS]. Otherwise
// they are followed.
func WriteFS(fsys fs.FS, writer Writer) error {
	err := fs.WalkDir(fsys, ".", func(name string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if name == "." {
			return nil
		}

		err = writeEntry(fsys, writer, name, dirEntry)
		if err != nil {
			return &Error{
				Op:   "write",
				Path: name,
				Err:  err,
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}

	return nil
}

func writeEntry(fsys fs.FS, writer Writer, name string, dirEntry fs.DirEntry) error {
	info, err := dirEntry.Info()
	if err != nil {
		return err //nolint:wrapcheck
	}

	switch info.Mode().Type() {
	case fs.ModeDir:
		return writer.WriteDirectory(name, info.Mode().Perm())
	case fs.ModeSymlink:
		target, err := virtfs.ReadLink(fsys, name)
		if err == nil {
			return writer.WriteLink(name, target)
		}

		return writeRegular(fsys, writer, name, 0)
	case 0:
		return writeRegular(fsys, writer, name, info.Mode().Perm())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, info.Mode().Type())
	}
}

func writeRegular(fsys fs.FS, writer Writer, name string, mode fs.FileMode) error {
	source, err := fsys.Open(name)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer source.Close()

	return writer.WriteRegular(name, source, mode)
}
