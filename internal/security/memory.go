// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package security hardens the process before it holds signing keys.
package security

import (
	"fmt"
	"syscall"
)

// DisableCoreDumps sets RLIMIT_CORE to zero so a crash cannot write an
// unsealed keypair to disk.
func DisableCoreDumps() error {
	limit := syscall.Rlimit{Cur: 0, Max: 0}
	if err := syscall.Setrlimit(syscall.RLIMIT_CORE, &limit); err != nil {
		return fmt.Errorf("failed to disable core dumps: %w", err)
	}
	return nil
}

// CoreDumpsDisabled reports whether the core file size limit is zero.
func CoreDumpsDisabled() (bool, error) {
	var limit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_CORE, &limit); err != nil {
		return false, err
	}
	return limit.Cur == 0, nil
}
