// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestParseSeed(t *testing.T) {
	mint := solana.MustPublicKeyFromBase58("4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU")

	tests := []struct {
		name    string
		arg     string
		want    []byte
		wantErr bool
	}{
		{name: "bare text", arg: "mint", want: []byte("mint")},
		{name: "str prefix", arg: "str:token-seed", want: []byte("token-seed")},
		{name: "str keeps colons", arg: "str:a:b", want: []byte("a:b")},
		{name: "unknown prefix is text", arg: "http://x", want: []byte("http://x")},
		{name: "empty str", arg: "str:", want: []byte{}},
		{name: "hex", arg: "hex:00ff10", want: []byte{0x00, 0xff, 0x10}},
		{name: "hex with 0x", arg: "hex:0x0a", want: []byte{0x0a}},
		{name: "bad hex", arg: "hex:zz", wantErr: true},
		{name: "b58", arg: "b58:2j", want: []byte{0x64}},
		{name: "bad b58", arg: "b58:0OIl", wantErr: true},
		{name: "pubkey", arg: "pubkey:" + mint.String(), want: mint[:]},
		{name: "bad pubkey", arg: "pubkey:abc", wantErr: true},
		{name: "u8", arg: "u8:255", want: []byte{255}},
		{name: "u8 overflow", arg: "u8:256", wantErr: true},
		{name: "u64", arg: "u64:258", want: []byte{2, 1, 0, 0, 0, 0, 0, 0}},
		{name: "u64 negative", arg: "u64:-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeed(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSeed(%q) = %x, want error", tt.arg, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeed(%q): %v", tt.arg, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("ParseSeed(%q) = %x, want %x", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParseSeeds(t *testing.T) {
	seeds, err := ParseSeeds([]string{"mint", "u8:7"})
	if err != nil {
		t.Fatal(err)
	}
	if len(seeds) != 2 || string(seeds[0]) != "mint" || seeds[1][0] != 7 {
		t.Errorf("ParseSeeds = %q", seeds)
	}
	if _, err := ParseSeeds([]string{"ok", "hex:q"}); err == nil {
		t.Error("expected error for bad seed")
	}
}

func TestParsePublicKey(t *testing.T) {
	if _, err := ParsePublicKey("mint", " 4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU "); err != nil {
		t.Errorf("ParsePublicKey: %v", err)
	}
	if _, err := ParsePublicKey("mint", "nope"); err == nil {
		t.Error("expected error")
	}
}
