// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ErrAmountTooLarge is returned when an amount does not fit in uint64 base units.
var ErrAmountTooLarge = errors.New("amount too large (exceeds uint64 capacity)")

// ParseAmount converts a decimal token amount such as "1.5" into base units
// of a mint with the given decimals.
func ParseAmount(amount string, decimals uint8) (uint64, error) {
	whole, frac, _ := strings.Cut(amount, ".")
	switch {
	case whole == "" && frac == "":
		return 0, fmt.Errorf("invalid amount %q", amount)
	case strings.HasPrefix(amount, "-"):
		return 0, fmt.Errorf("amount cannot be negative")
	case strings.Contains(frac, "."):
		return 0, fmt.Errorf("invalid amount %q: multiple decimal points", amount)
	case !isDigits(whole) || !isDigits(frac):
		return 0, fmt.Errorf("invalid amount %q", amount)
	case len(frac) > int(decimals):
		return 0, fmt.Errorf("amount has too many decimal places (max %d)", decimals)
	}

	var units uint64
	for _, c := range whole + frac + strings.Repeat("0", int(decimals)-len(frac)) {
		hi, lo := bits.Mul64(units, 10)
		lo, carry := bits.Add64(lo, uint64(c-'0'), 0)
		if hi != 0 || carry != 0 {
			return 0, ErrAmountTooLarge
		}
		units = lo
	}
	return units, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders base units as a token amount with exactly decimals
// fractional digits.
func FormatAmount(units uint64, decimals uint8) string {
	digits := strconv.FormatUint(units, 10)
	if decimals == 0 {
		return digits
	}
	d := int(decimals)
	if len(digits) <= d {
		digits = strings.Repeat("0", d+1-len(digits)) + digits
	}
	return digits[:len(digits)-d] + "." + digits[len(digits)-d:]
}
