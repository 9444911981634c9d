// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive reads and writes file trees as newc cpio archives.
//
// Archives may be compressed with zstd or gzip. Compression is detected on
// read by the stream's magic bytes.
package archive
