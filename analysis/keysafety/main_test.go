// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "internal/signer/bad.go", `package signer

import "math/rand"

func leak(passphrase []byte) error {
	_ = rand.Intn(3)
	return fmt.Errorf("bad passphrase %s", passphrase)
}
`)
	writeSource(t, root, "internal/signer/good.go", `package signer

func ok(path string) error {
	return fmt.Errorf("passphrase required for %s", path)
}
`)
	writeSource(t, root, "cmd/tool/main.go", `package main

import "math/rand"

func main() {
	util.Debug("loaded", "n", rand.Intn(3))
	// fmt.Println(secret)
}
`)
	writeSource(t, root, "internal/signer/leak_test.go", `package signer

func TestX() { fmt.Println(passphrase) }
`)
	writeSource(t, root, "_examples/other/x.go", `package x

func f() { fmt.Println(secret) }
`)

	findings, checked, err := scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if checked != 3 {
		t.Errorf("checked = %d, want 3", checked)
	}
	if len(findings) != 2 {
		t.Fatalf("findings = %v, want 2", findings)
	}
	for _, f := range findings {
		if !strings.HasSuffix(f.file, filepath.Join("internal", "signer", "bad.go")) {
			t.Errorf("unexpected finding in %s", f.file)
		}
	}
	if findings[0].line != 3 || !strings.Contains(findings[0].reason, "math/rand") {
		t.Errorf("first finding = %+v", findings[0])
	}
	if findings[1].line != 7 || !strings.Contains(findings[1].reason, `"passphrase"`) {
		t.Errorf("second finding = %+v", findings[1])
	}
}

func TestIsCritical(t *testing.T) {
	tests := map[string]bool{
		"internal/crypto/envelope.go": true,
		"internal/pda/pda.go":         true,
		"internal/cryptoutil/x.go":    false,
		"cmd/faucetctl/main.go":       false,
	}
	for rel, want := range tests {
		if got := isCritical(rel); got != want {
			t.Errorf("isCritical(%q) = %v, want %v", rel, got, want)
		}
	}
}
