// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package signer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aplane-algo/faucet/internal/crypto"
)

const (
	// commandTimeout bounds how long a passphrase helper may run.
	commandTimeout = 5 * time.Second

	// maxCommandOutput is the largest stdout accepted from a helper.
	maxCommandOutput = 8 * 1024
)

// Command runs an external helper that prints the passphrase of a sealed
// keypair, so faucetctl can unlock it without a terminal.
//
// The helper is invoked as
//
//	argv[0] read <keypair path> argv[1:]...
//
// with an environment holding only Env. One trailing newline is stripped
// from its stdout; "base64:" and "hex:" prefixes are decoded.
type Command struct {
	Argv []string
	Env  map[string]string
}

// Validate checks that argv[0] is an absolute path to an executable that
// is not group or world writable.
func (c Command) Validate() error {
	if len(c.Argv) == 0 {
		return fmt.Errorf("passphrase_command: must be non-empty")
	}
	path := c.Argv[0]
	if !filepath.IsAbs(path) {
		return fmt.Errorf("passphrase_command: argv[0] must be an absolute path, got %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("passphrase_command: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("passphrase_command: %s is a directory", path)
	}
	perm := info.Mode().Perm()
	if perm&0111 == 0 {
		return fmt.Errorf("passphrase_command: %s is not executable (mode %04o)", path, perm)
	}
	if perm&0022 != 0 {
		return fmt.Errorf("passphrase_command: %s is group or world writable (mode %04o)", path, perm)
	}
	return nil
}

// Prompt adapts the command to a PassphraseFunc.
func (c Command) Prompt() PassphraseFunc {
	return func(keypair string) ([]byte, error) {
		return c.Run(keypair)
	}
}

// Run executes the helper for the keypair at path and returns the decoded
// passphrase. The caller should zero the result after use.
func (c Command) Run(keypair string) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	args := append([]string{"read", keypair}, c.Argv[1:]...)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	// Own process group so a timeout also kills the helper's children.
	cmd := exec.Command(c.Argv[0], args...) //nolint:gosec // validated above
	cmd.Env = commandEnv(c.Env)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stderr = io.Discard

	var stdout bytes.Buffer
	defer func() {
		crypto.ZeroBytes(stdout.Bytes())
		stdout.Reset()
	}()
	lw := &limitedWriter{w: &stdout, remaining: maxCommandOutput}
	cmd.Stdout = lw

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("passphrase_command: failed to start: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("passphrase_command: command failed: %w", err)
		}
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return nil, fmt.Errorf("passphrase_command: timed out after %s", commandTimeout)
	}

	if lw.truncated {
		return nil, fmt.Errorf("passphrase_command: stdout exceeded %d bytes", maxCommandOutput)
	}

	out := stdout.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
		if n := len(out); n > 0 && out[n-1] == '\r' {
			out = out[:n-1]
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("passphrase_command: empty output")
	}
	if bytes.IndexByte(out, 0) >= 0 {
		return nil, fmt.Errorf("passphrase_command: output contains NUL bytes")
	}
	return decodePassphrase(out)
}

// decodePassphrase returns a fresh copy of out, decoding base64: and hex:
// prefixed values.
func decodePassphrase(out []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(out, []byte("base64:")):
		enc := out[len("base64:"):]
		dec := make([]byte, base64.StdEncoding.DecodedLen(len(enc)))
		n, err := base64.StdEncoding.Decode(dec, enc)
		if err != nil {
			crypto.ZeroBytes(dec)
			return nil, fmt.Errorf("passphrase_command: invalid base64 output: %w", err)
		}
		return dec[:n], nil
	case bytes.HasPrefix(out, []byte("hex:")):
		enc := out[len("hex:"):]
		dec := make([]byte, hex.DecodedLen(len(enc)))
		n, err := hex.Decode(dec, enc)
		if err != nil {
			crypto.ZeroBytes(dec)
			return nil, fmt.Errorf("passphrase_command: invalid hex output: %w", err)
		}
		return dec[:n], nil
	}
	return bytes.Clone(out), nil
}

// commandEnv never inherits the process environment.
func commandEnv(declared map[string]string) []string {
	env := make([]string, 0, len(declared))
	for k, v := range declared {
		env = append(env, k+"="+v)
	}
	return env
}

// limitedWriter drops output past its limit and records the truncation.
// It always reports the full length so the helper never sees a short write.
type limitedWriter struct {
	w         io.Writer
	remaining int64
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.remaining <= 0 {
		lw.truncated = true
		return n, nil
	}
	if int64(n) > lw.remaining {
		p = p[:lw.remaining]
		lw.truncated = true
	}
	written, err := lw.w.Write(p)
	lw.remaining -= int64(written)
	if err != nil {
		return written, err
	}
	return n, nil
}
