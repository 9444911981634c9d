// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is the compression algorithm of an archive stream.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionGzip
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionGzip:
		return "gzip"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// detectCompression peeks at the first bytes of the stream without consuming
// them.
func detectCompression(r *bufio.Reader) (Compression, error) {
	magic, err := r.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return CompressionNone, err //nolint:wrapcheck
	}

	switch {
	case bytes.HasPrefix(magic, zstdMagic):
		return CompressionZstd, nil
	case bytes.HasPrefix(magic, gzipMagic):
		return CompressionGzip, nil
	default:
		return CompressionNone, nil
	}
}

// decompress returns a reader for the decompressed stream. The returned
// function must be called once the reader is no longer used.
func decompress(r io.Reader) (io.Reader, func(), error) {
	buffered := bufio.NewReader(r)

	compression, err := detectCompression(buffered)
	if err != nil {
		return nil, nil, fmt.Errorf("detect compression: %w", err)
	}

	switch compression {
	case CompressionZstd:
		decoder, err := zstd.NewReader(buffered, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}

		return decoder, decoder.Close, nil
	case CompressionGzip:
		decoder, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}

		return decoder, func() { _ = decoder.Close() }, nil
	default:
		return buffered, func() {}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// compress returns a writer that compresses into w. Closing it does not close
// w.
func compress(w io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}

		return encoder, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: compression %s", ErrUnsupportedType, compression)
	}
}
