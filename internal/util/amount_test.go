// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     uint64
		wantErr  string
	}{
		{"1", 6, 1_000_000, ""},
		{"1.5", 6, 1_500_000, ""},
		{".5", 6, 500_000, ""},
		{"5.", 6, 5_000_000, ""},
		{"0.000001", 6, 1, ""},
		{"007", 0, 7, ""},
		{"18446744073709.551615", 6, math.MaxUint64, ""},
		{"", 6, 0, "invalid amount"},
		{".", 6, 0, "invalid amount"},
		{"abc", 6, 0, "invalid amount"},
		{"1e6", 6, 0, "invalid amount"},
		{"-1", 6, 0, "negative"},
		{"1.2.3", 6, 0, "multiple decimal points"},
		{"1.0000001", 6, 0, "too many decimal places"},
		{"1.5", 0, 0, "too many decimal places"},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.amount, tt.decimals)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseAmount(%q, %d) error = %v, want %q", tt.amount, tt.decimals, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q, %d): %v", tt.amount, tt.decimals, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q, %d) = %d, want %d", tt.amount, tt.decimals, got, tt.want)
		}
	}
}

func TestParseAmount_Overflow(t *testing.T) {
	for _, amount := range []string{"18446744073709.551616", "99999999999999999999"} {
		if _, err := ParseAmount(amount, 6); !errors.Is(err, ErrAmountTooLarge) {
			t.Errorf("ParseAmount(%q) error = %v, want ErrAmountTooLarge", amount, err)
		}
	}
	// A long zero prefix is not an overflow.
	if got, err := ParseAmount(strings.Repeat("0", 40)+"1", 0); err != nil || got != 1 {
		t.Errorf("ParseAmount(zero prefix) = %d, %v", got, err)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		units    uint64
		decimals uint8
		want     string
	}{
		{100, 0, "100"},
		{0, 6, "0.000000"},
		{1, 6, "0.000001"},
		{1_500_000, 6, "1.500000"},
		{499_995_000_000, 6, "499995.000000"},
		{math.MaxUint64, 6, "18446744073709.551615"},
		{1, 30, "0." + strings.Repeat("0", 29) + "1"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.units, tt.decimals); got != tt.want {
			t.Errorf("FormatAmount(%d, %d) = %q, want %q", tt.units, tt.decimals, got, tt.want)
		}
	}
}

func TestFormatAmount_ParsesBack(t *testing.T) {
	for _, units := range []uint64{0, 1, 42, 1_000_000, math.MaxUint64} {
		got, err := ParseAmount(FormatAmount(units, 9), 9)
		if err != nil || got != units {
			t.Errorf("ParseAmount(FormatAmount(%d)) = %d, %v", units, got, err)
		}
	}
}
