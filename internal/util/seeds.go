// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ParseSeed turns a command-line seed argument into bytes.
//
// Accepted forms:
//
//	str:<text>      UTF-8 bytes of text (also the default without a prefix)
//	hex:<digits>    hex-decoded bytes
//	b58:<text>      base58-decoded bytes
//	pubkey:<key>    32-byte public key
//	u8:<n>          one byte
//	u64:<n>         8 bytes, little endian
func ParseSeed(arg string) ([]byte, error) {
	kind, value, found := strings.Cut(arg, ":")
	if !found {
		return []byte(arg), nil
	}

	switch kind {
	case "str":
		return []byte(value), nil
	case "hex":
		b, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid hex seed %q: %w", value, err)
		}
		return b, nil
	case "b58":
		b, err := base58.Decode(value)
		if err != nil {
			return nil, fmt.Errorf("invalid base58 seed %q: %w", value, err)
		}
		return b, nil
	case "pubkey":
		key, err := solana.PublicKeyFromBase58(value)
		if err != nil {
			return nil, fmt.Errorf("invalid public key seed %q: %w", value, err)
		}
		return key.Bytes(), nil
	case "u8":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid u8 seed %q: %w", value, err)
		}
		return []byte{byte(n)}, nil
	case "u64":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid u64 seed %q: %w", value, err)
		}
		return binary.LittleEndian.AppendUint64(nil, n), nil
	default:
		// not a known prefix, so the colon is part of the text
		return []byte(arg), nil
	}
}

// ParseSeeds parses every argument with ParseSeed.
func ParseSeeds(args []string) ([][]byte, error) {
	seeds := make([][]byte, 0, len(args))
	for _, arg := range args {
		seed, err := ParseSeed(arg)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

// ParsePublicKey decodes a base58 public key, naming the argument on error.
func ParsePublicKey(name, value string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(value))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return key, nil
}
