// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/cavaliergopher/cpio"
)

// Directories are counted with their "." entry.
const dirLinks = 2

var _ Writer = (*CPIOWriter)(nil)

// CPIOWriter implements [Writer] for newc cpio archives.
//
// Names must be unique within an archive, as [Read] rejects duplicates.
type CPIOWriter struct {
	archive *cpio.Writer
	names   map[string]struct{}
}

// NewCPIOWriter creates a new archive writer.
func NewCPIOWriter(w io.Writer) *CPIOWriter {
	return &CPIOWriter{
		archive: cpio.NewWriter(w),
		names:   make(map[string]struct{}),
	}
}

// Close writes the trailer. It does not close the underlying [io.Writer].
func (w *CPIOWriter) Close() error {
	err := w.archive.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

// Entries returns the number of entries written so far.
func (w *CPIOWriter) Entries() int {
	return len(w.names)
}

// WriteDirectory adds a directory. With mode 0 all permission bits are set.
func (w *CPIOWriter) WriteDirectory(path string, mode fs.FileMode) error {
	perm := mode.Perm()
	if perm == 0 {
		perm = fs.ModePerm
	}

	return w.write(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeDir | cpio.FileMode(perm),
		Links: dirLinks,
	}, nil)
}

// WriteLink adds a symbolic link. The target is the body of the entry.
func (w *CPIOWriter) WriteLink(path, target string) error {
	return w.write(&cpio.Header{
		Name: path,
		Mode: cpio.TypeSymlink | cpio.ModePerm,
		Size: int64(len(target)),
	}, strings.NewReader(target))
}

// WriteRegular adds a regular file with the content of source. With mode 0
// the permission bits of source are used.
func (w *CPIOWriter) WriteRegular(path string, source fs.File, mode fs.FileMode) error {
	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = info.Mode().Perm()
	}

	return w.write(&cpio.Header{
		Name:    path,
		Mode:    cpio.TypeReg | cpio.FileMode(perm),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, source)
}

func (w *CPIOWriter) write(hdr *cpio.Header, body io.Reader) error {
	if _, exists := w.names[hdr.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, hdr.Name)
	}

	if hdr.Links == 0 {
		hdr.Links = 1
	}

	err := w.archive.WriteHeader(hdr)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	w.names[hdr.Name] = struct{}{}

	if body == nil {
		return nil
	}

	written, err := io.Copy(w.archive, body)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", hdr.Name, err)
	}

	if written != hdr.Size {
		return fmt.Errorf("write body for %s: %w", hdr.Name, io.ErrShortWrite)
	}

	return nil
}
