// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/aibor/explode/internal/virtfs"
	"github.com/opencontainers/go-digest"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	tempPattern = ".explode-*"

	maxLinkHops = 40
)

func (m *MountFS) materializeDir(name string) error {
	return fs.WalkDir(m.fsys, name, func(name string, dirEntry fs.DirEntry, err error) error { //nolint:wrapcheck
		if err != nil {
			return err
		}

		if !dirEntry.IsDir() {
			return nil
		}

		return os.MkdirAll(m.physicalPath(name), dirPerm) //nolint:wrapcheck
	})
}

// materializeSymlink creates the link with its target rewritten relative to
// the link's location in the staging directory. Absolute targets start at the
// root of the mounted tree and targets never leave it.
func (m *MountFS) materializeSymlink(name, dst string) error {
	target, err := virtfs.ReadLink(m.fsys, name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	treeTarget := virtfs.LinkTarget(path.Dir(name), target)

	target, err = filepath.Rel(filepath.Dir(dst), m.physicalPath(treeTarget))
	if err != nil {
		return fmt.Errorf("link target: %w", err)
	}

	existing, err := os.Readlink(dst)
	if err == nil && existing == target {
		return nil
	}

	replace := !errors.Is(err, fs.ErrNotExist)

	tmpPath, err := tempName(filepath.Dir(dst))
	if err != nil {
		return err
	}

	err = os.Symlink(target, tmpPath)
	if err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}

	return commit(tmpPath, dst, replace)
}

func (m *MountFS) materializeFile(name, dst string) error {
	info, err := fs.Stat(m.fsys, name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	perm := fs.FileMode(filePerm)
	if m.preserveMode {
		perm = info.Mode().Perm()
	}

	upToDate, replace, err := m.upToDate(name, dst, info.Size())
	if err != nil {
		return err
	}

	if upToDate {
		return m.reuse(dst, perm)
	}

	err = os.MkdirAll(filepath.Dir(dst), dirPerm)
	if err != nil {
		return fmt.Errorf("create parent: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	success := false

	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	src, err := m.fsys.Open(name)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer src.Close()

	digester := digest.Canonical.Digester()

	_, err = io.Copy(io.MultiWriter(tmp, digester.Hash()), src)
	if err != nil {
		return fmt.Errorf("copy content: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if m.verify {
		err = m.verifyCopy(name, digester.Digest())
		if err != nil {
			return err
		}
	}

	err = os.Chmod(tmpPath, perm)
	if err != nil {
		return fmt.Errorf("set mode: %w", err)
	}

	err = commit(tmpPath, dst, replace)
	if err != nil {
		return err
	}

	success = true

	return nil
}

// upToDate checks if the file at dst has the same content as the named source
// file and can be reused. It also reports whether dst exists and must be
// replaced.
func (m *MountFS) upToDate(name, dst string, size int64) (bool, bool, error) {
	info, err := os.Lstat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, false, nil
	} else if err != nil {
		return false, false, err //nolint:wrapcheck
	}

	if info.IsDir() {
		return false, false, &PathError{
			Op:   "materialize",
			Path: dst,
			Err:  fs.ErrExist,
		}
	}

	if !info.Mode().IsRegular() || info.Size() != size {
		return false, true, nil
	}

	srcDigest, err := fileDigest(m.fsys, name)
	if err != nil {
		return false, false, err
	}

	dstDigest, err := fileDigest(os.DirFS(filepath.Dir(dst)), filepath.Base(dst))
	if err != nil {
		return false, false, err
	}

	m.logger.Debug("Compared existing file",
		slog.String("path", dst),
		slog.Bool("match", srcDigest == dstDigest),
	)

	return srcDigest == dstDigest, true, nil
}

// reuse keeps the existing file at dst and only updates its permissions, if
// they differ.
func (m *MountFS) reuse(dst string, perm fs.FileMode) error {
	info, err := os.Lstat(dst)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if info.Mode().Perm() == perm {
		return nil
	}

	m.logger.Debug("Update mode of existing file",
		slog.String("path", dst),
		slog.String("mode", perm.String()),
	)

	err = os.Chmod(dst, perm)
	if err != nil {
		return fmt.Errorf("set mode: %w", err)
	}

	return nil
}

// verifyCopy reads the named source file again and compares its digest with
// the one of the copied content.
func (m *MountFS) verifyCopy(name string, copied digest.Digest) error {
	srcDigest, err := fileDigest(m.fsys, name)
	if err != nil {
		return err
	}

	if srcDigest != copied {
		return fmt.Errorf("%w: copied %s, source %s", ErrDigestMismatch, copied, srcDigest)
	}

	m.logger.Debug("Verified copy",
		slog.String("name", name),
		slog.String("digest", copied.String()),
	)

	return nil
}

func fileDigest(fsys fs.FS, name string) (digest.Digest, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	defer file.Close()

	dgst, err := digest.Canonical.FromReader(file)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", name, err)
	}

	return dgst, nil
}

// tempName returns an unused name in dir.
func tempName(dir string) (string, error) {
	err := os.MkdirAll(dir, dirPerm)
	if err != nil {
		return "", fmt.Errorf("create parent: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	_ = tmp.Close()

	err = os.Remove(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("remove temp file: %w", err)
	}

	return tmp.Name(), nil
}
