// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

const workersAuto = "auto"

var ErrValueOutOfRange = errors.New("value is outside of range")

// workersValue is a [flag.Value] for the number of concurrent
// materializations. "auto" selects GOMAXPROCS, capped at max.
type workersValue struct {
	count *int
	max   int
}

func (w *workersValue) String() string {
	if w.count == nil {
		return "1"
	}

	return strconv.Itoa(*w.count)
}

func (w *workersValue) Set(s string) error {
	if s == workersAuto {
		*w.count = min(runtime.GOMAXPROCS(0), w.max)
		return nil
	}

	count, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if count < 1 || count > w.max {
		return fmt.Errorf("%d not in 1..%d: %w", count, w.max, ErrValueOutOfRange)
	}

	*w.count = count

	return nil
}
