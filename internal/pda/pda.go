// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package pda derives program-owned account addresses.
//
// A program-derived address is the SHA-256 of the seeds, the owning program
// id and a fixed marker. Addresses that decode as edwards25519 points are
// rejected so that no private key can ever sign for them. Find appends a
// one-byte bump to the seeds and walks it down from 255 until the first
// off-curve address; that bump is the canonical one.
//
// The byte layout here must match the on-chain runtime exactly. A mismatch
// does not fail loudly: the program simply sees different accounts.
package pda

import (
	"crypto/sha256"
	"errors"
	"math"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16
	// MaxSeedLen is the maximum length of a single seed in bytes.
	MaxSeedLen = 32
)

// Marker is appended after the program id before hashing.
const Marker = "ProgramDerivedAddress"

var (
	// ErrDerivationExhausted is returned by Find when every bump yields an
	// address on the curve.
	ErrDerivationExhausted = errors.New("unable to find a viable program address bump seed")

	// ErrOnCurve is returned by Create when the derived address is a valid
	// ed25519 public key.
	ErrOnCurve = errors.New("derived address is on the ed25519 curve")

	// ErrMaxSeedLength is returned when a seed is longer than MaxSeedLen.
	ErrMaxSeedLength = errors.New("seed exceeds maximum length")

	// ErrTooManySeeds is returned when more than MaxSeeds seeds are supplied.
	ErrTooManySeeds = errors.New("too many seeds")
)

// Create computes the address for seeds under programID. The bump, if any,
// must already be the last seed.
func Create(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	if err := checkSeeds(seeds, MaxSeeds); err != nil {
		return solana.PublicKey{}, err
	}

	addr := hash(seeds, nil, programID)
	if IsOnCurve(addr[:]) {
		return solana.PublicKey{}, ErrOnCurve
	}
	return addr, nil
}

// Find returns the canonical program address for seeds under programID and
// the bump that produced it.
func Find(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return find(seeds, programID, IsOnCurve)
}

func find(seeds [][]byte, programID solana.PublicKey, onCurve func([]byte) bool) (solana.PublicKey, uint8, error) {
	// One slot is reserved for the bump.
	if err := checkSeeds(seeds, MaxSeeds-1); err != nil {
		return solana.PublicKey{}, 0, err
	}

	// Bump 0 is never tried; the on-chain search stops at 1.
	for bump := uint8(math.MaxUint8); bump != 0; bump-- {
		addr := hash(seeds, []byte{bump}, programID)
		if !onCurve(addr[:]) {
			return addr, bump, nil
		}
	}
	return solana.PublicKey{}, 0, ErrDerivationExhausted
}

// MustFind is Find for seeds known to be valid, such as package-level
// constants. It panics on error.
func MustFind(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8) {
	addr, bump, err := Find(seeds, programID)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

// IsOnCurve reports whether b decodes to a valid edwards25519 point, that is,
// whether it could be an ed25519 public key.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

func checkSeeds(seeds [][]byte, max int) error {
	if len(seeds) > max {
		return ErrTooManySeeds
	}
	for _, s := range seeds {
		if len(s) > MaxSeedLen {
			return ErrMaxSeedLength
		}
	}
	return nil
}

func hash(seeds [][]byte, bump []byte, programID solana.PublicKey) solana.PublicKey {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(bump)
	h.Write(programID[:])
	h.Write([]byte(Marker))

	var out solana.PublicKey
	copy(out[:], h.Sum(nil))
	return out
}
