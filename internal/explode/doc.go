// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package explode forces file trees onto physical storage.
//
// [Explode] materializes every file of a tree that may be backed by an
// archive or any other virtual storage. It returns a fresh entry that is
// backed purely by the local file system. [Root] additionally reports whether
// the physical root differs from the given one, so callers know if they need
// to update their records.
package explode
