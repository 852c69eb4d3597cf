// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPrinter_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Title("Faucet")
	p.Field("Mint", "4zMM")
	p.Success("done %d", 1)
	p.Error(errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Errorf("output contains ANSI escapes: %q", out)
	}
	for _, want := range []string{"Faucet\n", "  Mint:           4zMM\n", "done 1\n", "Error: boom\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
