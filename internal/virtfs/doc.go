// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package virtfs provides a virtual file tree. It holds the contents of
// packaged archives so they can be navigated like any other [io/fs.FS]. It
// supports directories, regular files and symbolic links and implements
// [ReadLinkFS].
//
// Regular files are not stored in the tree itself. Each regular file is
// represented by a [FileOpenFunc] that is called when the file is opened. The
// function may open a file on disk, a section of an archive or an in-memory
// buffer as returned by [Bytes].
package virtfs
