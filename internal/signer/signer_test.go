// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package signer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplane-algo/faucet/internal/crypto"
	"github.com/aplane-algo/faucet/internal/testutil"
)

func fixedPassphrase(p string) PassphraseFunc {
	return func(string) ([]byte, error) { return []byte(p), nil }
}

func TestGenerateLoad_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")

	key, err := Generate(path, nil)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), loaded.PublicKey())

	// the file is readable by the solana-go keygen loader
	viaSolana, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), viaSolana.PublicKey())
}

func TestGenerateLoad_Sealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")

	key, err := Generate(path, []byte("hunter2"))
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, crypto.IsSealed(raw))

	_, err = Load(path, nil)
	require.ErrorIs(t, err, ErrPassphraseRequired)

	_, err = Load(path, fixedPassphrase("wrong"))
	require.ErrorIs(t, err, crypto.ErrWrongPassphrase)

	loaded, err := Load(path, fixedPassphrase("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestLoad_PromptError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")
	_, err := Generate(path, []byte("pass"))
	require.NoError(t, err)

	boom := errors.New("no tty")
	_, err = Load(path, func(string) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
}

func TestGenerate_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")
	_, err := Generate(path, nil)
	require.NoError(t, err)

	_, err = Generate(path, nil)
	require.ErrorIs(t, err, ErrKeypairExists)
}

func TestParse_Rejects(t *testing.T) {
	key := testutil.KeyFromSeed(7)
	good, err := Marshal(key)
	require.NoError(t, err)

	mismatched := append(solana.PrivateKey{}, key...)
	mismatched[40] ^= 0xFF
	bad, err := Marshal(mismatched)
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{"not json", "nope"},
		{"short", "[1,2,3]"},
		{"out of range", "[" + strings.Repeat("256,", 63) + "1]"},
		{"public half mismatch", string(bad)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.ErrorIs(t, err, ErrInvalidKeypair)
		})
	}

	parsed, err := Parse(good)
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}

func TestTerminalPrompt_NonTerminal(t *testing.T) {
	f, err := os.Open(testutil.TempFile(t, []byte("s3cret\n")))
	require.NoError(t, err)
	defer f.Close()

	out, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	require.NoError(t, err)
	defer out.Close()

	pass, err := TerminalPrompt(f, out)("id.json")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(pass))
}
