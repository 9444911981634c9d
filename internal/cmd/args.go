// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	// ArgsEnvVar is the environment variable holding additional arguments.
	ArgsEnvVar = "EXPLODE_ARGS"

	// ArgsFile is the file in the working directory holding additional
	// arguments.
	ArgsFile = ".explode-args"
)

// ArgsFromEnv returns the whitespace separated arguments of the given
// environment variable.
func ArgsFromEnv(name string) []string {
	return strings.Fields(os.Getenv(name))
}

// ArgsFromFile returns the arguments from the named file. A missing file has
// no arguments.
//
// Each non-empty line is a single argument, so values may contain spaces.
// Lines starting with "#" are ignored. Environment variables are expanded.
func ArgsFromFile(fsys fs.FS, name string) ([]string, error) {
	content, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var args []string

	for line := range strings.Lines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		args = append(args, os.ExpandEnv(line))
	}

	return args, nil
}

// CollectArgs prepends the arguments from [ArgsEnvVar] and [ArgsFile] in fsys
// to args. As later flags override earlier ones, the command line wins over
// the file which wins over the environment.
func CollectArgs(args []string, fsys fs.FS) ([]string, error) {
	fileArgs, err := ArgsFromFile(fsys, ArgsFile)
	if err != nil {
		return nil, err
	}

	collected := ArgsFromEnv(ArgsEnvVar)
	collected = append(collected, fileArgs...)

	return append(collected, args...), nil
}
