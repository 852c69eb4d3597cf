// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/pflag"

	"github.com/aplane-algo/faucet/internal/util"
)

// keyFlag is a base58 public key flag. The zero value is unset.
type keyFlag struct {
	label string
	key   solana.PublicKey
	set   bool
}

var _ pflag.Value = (*keyFlag)(nil)

func (f *keyFlag) String() string {
	if !f.set {
		return ""
	}
	return f.key.String()
}

func (f *keyFlag) Set(value string) error {
	key, err := util.ParsePublicKey(f.label, value)
	if err != nil {
		return err
	}
	f.key, f.set = key, true
	return nil
}

func (f *keyFlag) Type() string { return "pubkey" }

// programFlags holds the --program override shared by read-only commands.
type programFlags struct {
	program keyFlag
}

func (p *programFlags) SetFlags(flags *pflag.FlagSet) {
	p.program.label = "program id"
	flags.Var(&p.program, "program", "Program id (default from config)")
}

// resolve returns --program, falling back to the configured program id.
func (p *programFlags) resolve(a *app) solana.PublicKey {
	if p.program.set {
		return p.program.key
	}
	return a.programID()
}
