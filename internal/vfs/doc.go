// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package vfs provides handles for entries of a file tree that may or may not
// be backed by physical storage.
//
// An [Entry] is either backed by the local file system ([Physical]) or by an
// arbitrary [io/fs.FS] that is mounted onto a staging directory ([Mount]).
// Materializing a mounted entry copies its content into the staging
// directory, so it can be addressed by a plain file system path afterwards.
package vfs
