// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package faucet

import (
	"github.com/gagliardetto/solana-go"

	"github.com/aplane-algo/faucet/internal/pda"
)

// DefaultProgramID is the id the faucet program is deployed under.
var DefaultProgramID = solana.MustPublicKeyFromBase58("EtTeTRSJSRBBgm5nrmodadBpToGFrwWjo2syiVAjvjuT")

// Seed prefixes. These are hashed verbatim, without length prefixes, and
// must match the deployed program byte for byte.
var (
	FaucetSeed     = []byte("mint")
	TokenSeed      = []byte("token-seed")
	WithdrawerSeed = []byte("withdrawer")
)

// FaucetAddress derives the faucet record address for mint.
func FaucetAddress(programID, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return pda.Find([][]byte{FaucetSeed, mint[:]}, programID)
}

// FaucetTokenAddress derives the address of the token account holding the
// faucet's pool for mint.
func FaucetTokenAddress(programID, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return pda.Find([][]byte{TokenSeed, mint[:]}, programID)
}

// WithdrawerAddress derives the withdrawer record address for owner.
func WithdrawerAddress(programID, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return pda.Find([][]byte{WithdrawerSeed, owner[:]}, programID)
}

// faucetSignerAddress recreates the faucet address from its stored bump, the
// way the program signs transfers out of the pool.
func faucetSignerAddress(programID, mint solana.PublicKey, bump uint8) (solana.PublicKey, error) {
	return pda.Create([][]byte{FaucetSeed, mint[:], {bump}}, programID)
}
