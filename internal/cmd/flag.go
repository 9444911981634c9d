// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"
)

const (
	name = "explode"

	workersDefault = 1
	workersMax     = 256

	usageMessage = `Usage of 'explode':
    explode [flags...] ROOT

ROOT is either a directory or a cpio archive file, optionally compressed with
zstd or gzip. An archive is extracted into the directory given with -dest or
into a new temporary directory. A directory is used as is. The physical root
directory is printed on stdout.

Explode an archive into a directory:
	explode -dest=/srv/app app.cpio.zst

Pack a directory into an archive:
	explode -pack=app.cpio.zst -zstd /srv/app

All explode flags can also be provided via environment variable EXPLODE_ARGS:
	EXPLODE_ARGS="-verify -debug" explode app.cpio

All explode flags can also be provided via file ./.explode-args, with one
argument per line.
`
)

type flags struct {
	Root         string
	Dest         string
	Pack         string
	Zstd         bool
	Workers      int
	Verify       bool
	PreserveMode bool
	Debug        bool
	LogFormat    logFormat
	Version      bool

	flagSet *flag.FlagSet
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := &flags{
		Workers:   workersDefault,
		LogFormat: "text",
	}

	flags.initFlagset(output)

	err := flags.parseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

func (f *flags) parseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &UsageError{Err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.Version {
		return &UsageError{Err: f.printVersionInformation()}
	}

	positionalArgs := f.flagSet.Args()

	switch len(positionalArgs) {
	case 0:
		return f.fail(ErrNoRoot)
	case 1:
	default:
		return f.fail(ErrTooManyRoots)
	}

	root, err := AbsoluteFilePath(positionalArgs[0])
	if err != nil {
		return f.fail(fmt.Errorf("root: %w", err))
	}

	f.Root = root

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.Var(
		(*FilePath)(&f.Dest),
		"dest",
		"directory to extract an archive into (default is a new temporary "+
			"directory)",
	)

	flagSet.Var(
		(*FilePath)(&f.Pack),
		"pack",
		"write the directory ROOT as cpio archive to the given file instead "+
			"of exploding it",
	)

	flagSet.BoolVar(
		&f.Zstd,
		"zstd",
		f.Zstd,
		"compress the archive written with -pack with zstd",
	)

	flagSet.Var(
		&workersValue{
			count: &f.Workers,
			max:   workersMax,
		},
		"workers",
		"number of files materialized concurrently, or \"auto\" for one per "+
			"CPU",
	)

	flagSet.BoolVar(
		&f.Verify,
		"verify",
		f.Verify,
		"read each source file again after copying and compare digests",
	)

	flagSet.BoolVar(
		&f.PreserveMode,
		"preserveMode",
		f.PreserveMode,
		"apply the permission bits of archived files (default is 0644)",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	flagSet.Var(
		&f.LogFormat,
		"logFormat",
		"log format, either \"text\" or \"json\"",
	)

	flagSet.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(err error) error {
	fmt.Fprintln(f.flagSet.Output(), err.Error())
	f.flagSet.Usage()

	return &UsageError{Err: err}
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
