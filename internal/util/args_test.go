// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   \t  ", nil},
		{"single word", "  show", []string{"show"}},
		{"spaces and tabs", "deposit\t  1   now", []string{"deposit", "1", "now"}},
		{"double quotes", `derive str:mint "str:hello world"`, []string{"derive", "str:mint", "str:hello world"}},
		{"single quotes keep backslash", `derive 'a\b c'`, []string{"derive", `a\b c`}},
		{"escaped space", `derive str:a\ b`, []string{"derive", "str:a b"}},
		{"escaped quote", `derive "say \"hi\""`, []string{"derive", `say "hi"`}},
		{"empty quoted word", `derive ""`, []string{"derive", ""}},
		{"adjacent quoted parts", `str:"a b"'c'`, []string{"str:a bc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitArgs(tt.input)
			if err != nil {
				t.Fatalf("SplitArgs(%q): %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitArgs_Errors(t *testing.T) {
	tests := map[string]string{
		`derive "open`: "unterminated \" quote",
		`derive 'open`: "unterminated ' quote",
		`derive a\`:    "trailing backslash",
	}
	for input, want := range tests {
		_, err := SplitArgs(input)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("SplitArgs(%q) error = %v, want %q", input, err, want)
		}
	}
}
