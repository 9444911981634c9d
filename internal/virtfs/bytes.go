// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"bytes"
	"io/fs"
	"time"
)

// Bytes returns a [FileOpenFunc] that opens an in-memory regular file with
// the given content. Each call returns a new independent reader. The data
// must not be modified afterwards.
func Bytes(data []byte) FileOpenFunc {
	return func() (fs.File, error) {
		return &bytesFile{bytes.NewReader(data)}, nil
	}
}

var (
	_ fs.File     = (*bytesFile)(nil)
	_ fs.FileInfo = (*bytesFile)(nil)
)

type bytesFile struct {
	*bytes.Reader
}

func (f *bytesFile) Stat() (fs.FileInfo, error) { return f, nil }
func (*bytesFile) Close() error                 { return nil }
func (*bytesFile) Name() string                 { return "" }
func (*bytesFile) Mode() fs.FileMode            { return filePerm }
func (*bytesFile) ModTime() time.Time           { return time.Time{} }
func (*bytesFile) IsDir() bool                  { return false }
func (*bytesFile) Sys() any                     { return nil }
