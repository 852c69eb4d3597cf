// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package security

import "testing"

func TestDisableCoreDumps(t *testing.T) {
	if err := DisableCoreDumps(); err != nil {
		t.Fatalf("DisableCoreDumps: %v", err)
	}
	disabled, err := CoreDumpsDisabled()
	if err != nil {
		t.Fatalf("CoreDumpsDisabled: %v", err)
	}
	if !disabled {
		t.Error("core dumps still enabled")
	}
}
