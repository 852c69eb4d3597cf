// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev (commit: unknown, built: unknown, "},
		{Info{Version: "0.1.0", Commit: "0123456789abcdef", BuildTime: "2026-01-02T03:04:05Z"}, "0.1.0 (commit: 0123456789ab, built: 2026-01-02T03:04:05Z, "},
		{Info{Version: "0.1.0", Commit: "abc", Modified: true}, "0.1.0 (commit: abc+dirty, built: unknown, "},
	}
	for _, tt := range tests {
		got := tt.info.String()
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("String() = %q, want prefix %q", got, tt.want)
		}
		if !strings.HasSuffix(got, runtime.GOOS+"/"+runtime.GOARCH+")") {
			t.Errorf("String() = %q, missing platform", got)
		}
	}
}

func TestGet_PrefersLinkerValues(t *testing.T) {
	oldCommit := GitCommit
	t.Cleanup(func() { GitCommit = oldCommit })

	GitCommit = "feedface"
	if got := Get().Commit; got != "feedface" {
		t.Errorf("Commit = %q, want feedface", got)
	}
}
