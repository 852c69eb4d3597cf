// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package testutil provides reusable test infrastructure and utilities.
package testutil

import (
	"crypto/ed25519"
	"encoding/binary"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
)

// NewKey generates a random keypair, failing the test on error.
func NewKey(t testing.TB) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate keypair: %v", err)
	}
	return key
}

// NewAddress returns the public key of a fresh random keypair.
func NewAddress(t testing.TB) solana.PublicKey {
	t.Helper()
	return NewKey(t).PublicKey()
}

// KeyFromSeed returns a reproducible keypair for index.
func KeyFromSeed(index uint64) solana.PrivateKey {
	seed := make([]byte, ed25519.SeedSize)
	binary.LittleEndian.PutUint64(seed, index)
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed))
}

// TempFile creates a temporary file with the given content, returning the path.
// The file is automatically cleaned up when the test completes.
func TempFile(t testing.TB, content []byte) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "testfile-*")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.Write(content); err != nil {
		_ = tmpFile.Close()
		t.Fatalf("Failed to write temp file: %v", err)
	}
	_ = tmpFile.Close()
	return tmpFile.Name()
}
