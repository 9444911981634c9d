// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/aibor/explode/internal/virtfs"
	"github.com/cavaliergopher/cpio"
)

// DefaultMaxFileSize is the default limit for regular files read from an
// archive.
const DefaultMaxFileSize = 256 << 20

// ReadOption configures [Read].
type ReadOption func(*readConfig)

type readConfig struct {
	maxFileSize int64
}

// WithMaxFileSize limits the size of regular files read from an archive.
// Files are held in memory, so this limits memory consumption per file.
func WithMaxFileSize(size int64) ReadOption {
	return func(c *readConfig) {
		c.maxFileSize = size
	}
}

// Open reads the archive file with the given path. See [Read].
func Open(name string, opts ...ReadOption) (*virtfs.FS, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, &Error{
			Op:   "open",
			Path: name,
			Err:  err,
		}
	}
	defer file.Close()

	return Read(file, opts...)
}

// Read reads a cpio archive into a new [virtfs.FS].
//
// The stream may be zstd or gzip compressed. Leading "/" and "./" of entry
// names are stripped. Parent directories missing in the archive are created.
// Regular file contents are held in memory.
func Read(r io.Reader, opts ...ReadOption) (*virtfs.FS, error) {
	cfg := readConfig{
		maxFileSize: DefaultMaxFileSize,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	stream, closeFn, err := decompress(r)
	if err != nil {
		return nil, &Error{
			Op:  "read",
			Err: err,
		}
	}
	defer closeFn()

	fsys := virtfs.New()

	err = readInto(fsys, cpio.NewReader(stream), cfg)
	if err != nil {
		return nil, err
	}

	return fsys, nil
}

func readInto(fsys virtfs.FSAdder, reader *cpio.Reader, cfg readConfig) error {
	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return &Error{
				Op:  "read",
				Err: err,
			}
		}

		name, err := entryName(hdr.Name)
		if err == nil && name != "." {
			err = addEntry(fsys, reader, hdr, name, cfg)
		}

		if err != nil {
			return &Error{
				Op:   "read",
				Path: hdr.Name,
				Err:  err,
			}
		}
	}
}

func entryName(name string) (string, error) {
	for {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(name, "/"), "./")
		if trimmed == name {
			break
		}

		name = trimmed
	}

	if name == "" {
		return ".", nil
	}

	name = path.Clean(name)
	if !fs.ValidPath(name) {
		return "", ErrInvalidPath
	}

	return name, nil
}

func addEntry(
	fsys virtfs.FSAdder,
	reader io.Reader,
	hdr *cpio.Header,
	name string,
	cfg readConfig,
) error {
	fileType := hdr.Mode & cpio.ModeType

	if fileType == cpio.TypeDir {
		return fsys.MkdirAll(name) //nolint:wrapcheck
	}

	err := fsys.MkdirAll(path.Dir(name))
	if err != nil {
		return err //nolint:wrapcheck
	}

	switch fileType {
	case cpio.TypeSymlink:
		target := hdr.Linkname
		if target == "" {
			body, err := readBody(reader, hdr.Size, cfg.maxFileSize)
			if err != nil {
				return err
			}

			target = string(body)
		}

		return fsys.Symlink(target, name) //nolint:wrapcheck
	case cpio.TypeReg:
		data, err := readBody(reader, hdr.Size, cfg.maxFileSize)
		if err != nil {
			return err
		}

		perm := fs.FileMode(hdr.Mode.Perm())

		return fsys.AddMode(name, perm, virtfs.Bytes(data)) //nolint:wrapcheck
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, hdr.Mode)
	}
}

func readBody(reader io.Reader, size, maxSize int64) ([]byte, error) {
	if size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, size)
	}

	body := bytes.NewBuffer(make([]byte, 0, size))

	n, err := io.Copy(body, io.LimitReader(reader, size))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if n != size {
		return nil, fmt.Errorf("read body: %w", io.ErrUnexpectedEOF)
	}

	return body.Bytes(), nil
}
