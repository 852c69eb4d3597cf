// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package signer loads the keypair that signs faucet transactions.
//
// Two file formats are accepted: the Solana keygen JSON array of 64 bytes,
// and the same array sealed by internal/crypto under a passphrase.
package signer

import (
	"bufio"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/term"

	"github.com/aplane-algo/faucet/internal/crypto"
	"github.com/aplane-algo/faucet/internal/fsutil"
)

var (
	// ErrInvalidKeypair is returned for files that do not hold a valid
	// ed25519 keypair.
	ErrInvalidKeypair = errors.New("invalid keypair")

	// ErrPassphraseRequired is returned when a sealed keypair is loaded
	// without a way to ask for its passphrase.
	ErrPassphraseRequired = errors.New("keypair is encrypted, passphrase required")

	// ErrKeypairExists is returned by Generate when the target file exists.
	ErrKeypairExists = errors.New("keypair file already exists")
)

// PassphraseFunc supplies the passphrase for a sealed keypair file.
type PassphraseFunc func(path string) ([]byte, error)

// Load reads the keypair at path. prompt is only called for sealed files
// and may be nil when none are expected.
func Load(path string, prompt PassphraseFunc) (solana.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair: %w", err)
	}

	if crypto.IsSealed(data) {
		if prompt == nil {
			return nil, fmt.Errorf("%w: %s", ErrPassphraseRequired, path)
		}
		passphrase, err := prompt(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", err)
		}
		defer crypto.ZeroBytes(passphrase)

		opened, err := crypto.Open(data, passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer crypto.ZeroBytes(opened)
		data = opened
	}

	return Parse(data)
}

// Parse decodes a keygen JSON array and checks that its public half matches
// the private seed.
func Parse(data []byte) (solana.PrivateKey, error) {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeypair, err)
	}
	if len(values) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidKeypair, len(values), ed25519.PrivateKeySize)
	}

	key := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte %d out of range", ErrInvalidKeypair, i)
		}
		key[i] = byte(v)
	}

	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !derived.Equal(ed25519.PrivateKey(key)) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidKeypair)
	}
	return solana.PrivateKey(key), nil
}

// Marshal encodes key in the keygen JSON array format.
func Marshal(key solana.PrivateKey) ([]byte, error) {
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	return json.Marshal(values)
}

// Generate creates a new keypair and writes it to path. A non-empty
// passphrase seals the file. Existing files are never overwritten.
func Generate(path string, passphrase []byte) (solana.PrivateKey, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeypairExists, path)
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	data, err := Marshal(key)
	if err != nil {
		return nil, err
	}
	defer crypto.ZeroBytes(data)

	if len(passphrase) > 0 {
		sealed, err := crypto.Seal(data, passphrase)
		if err != nil {
			return nil, err
		}
		if err := fsutil.WritePrivate(path, sealed); err != nil {
			return nil, fmt.Errorf("failed to write keypair: %w", err)
		}
		return key, nil
	}

	if err := fsutil.WritePrivate(path, data); err != nil {
		return nil, fmt.Errorf("failed to write keypair: %w", err)
	}
	return key, nil
}

// TerminalPrompt asks for a passphrase on the terminal, or reads one line
// from in when it is not a terminal.
func TerminalPrompt(in *os.File, out io.Writer) PassphraseFunc {
	return func(path string) ([]byte, error) {
		_, _ = fmt.Fprintf(out, "Passphrase for %s: ", path)

		fd := int(in.Fd()) // #nosec G115 - file descriptors are small integers
		if term.IsTerminal(fd) {
			pass, err := term.ReadPassword(fd)
			_, _ = fmt.Fprintln(out)
			return pass, err
		}

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}
}
