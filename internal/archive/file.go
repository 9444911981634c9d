// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const archiveFilePerm = 0o644

// Write writes the given [fs.FS] as cpio archive to w.
func Write(w io.Writer, fsys fs.FS, compression Compression) error {
	compressor, err := compress(w, compression)
	if err != nil {
		return &Error{
			Op:  "write",
			Err: err,
		}
	}

	writer := NewCPIOWriter(compressor)

	err = WriteFS(fsys, writer)
	if err != nil {
		return err
	}

	err = writer.Close()
	if err != nil {
		return &Error{
			Op:  "write",
			Err: err,
		}
	}

	err = compressor.Close()
	if err != nil {
		return &Error{
			Op:  "write",
			Err: fmt.Errorf("close compressor: %w", err),
		}
	}

	return nil
}

// WriteFile writes the given [fs.FS] as cpio archive to the file with the
// given name.
//
// The archive is written to a temporary file in the same directory first and
// renamed once complete. An existing file is replaced.
func WriteFile(name string, fsys fs.FS, compression Compression) error {
	file, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+"-*")
	if err != nil {
		return &Error{
			Op:   "create",
			Path: name,
			Err:  err,
		}
	}

	tmpPath := file.Name()
	success := false

	defer func() {
		if !success {
			_ = file.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	err = Write(file, fsys, compression)
	if err != nil {
		return err
	}

	err = file.Close()
	if err != nil {
		return &Error{
			Op:   "create",
			Path: name,
			Err:  err,
		}
	}

	err = os.Chmod(tmpPath, archiveFilePerm)
	if err != nil {
		return &Error{
			Op:   "create",
			Path: name,
			Err:  err,
		}
	}

	err = os.Rename(tmpPath, name)
	if err != nil {
		return &Error{
			Op:   "create",
			Path: name,
			Err:  err,
		}
	}

	success = true

	return nil
}
