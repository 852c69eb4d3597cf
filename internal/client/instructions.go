// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package client

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/aplane-algo/faucet/internal/faucet"
)

// Addresses holds the derived accounts of one mint's faucet.
type Addresses struct {
	Faucet            solana.PublicKey
	FaucetBump        uint8
	FaucetAccount     solana.PublicKey
	FaucetAccountBump uint8
}

// DeriveAddresses derives the faucet record and token pool addresses for mint.
func DeriveAddresses(programID, mint solana.PublicKey) (Addresses, error) {
	var a Addresses
	var err error
	if a.Faucet, a.FaucetBump, err = faucet.FaucetAddress(programID, mint); err != nil {
		return Addresses{}, fmt.Errorf("failed to derive faucet address: %w", err)
	}
	if a.FaucetAccount, a.FaucetAccountBump, err = faucet.FaucetTokenAddress(programID, mint); err != nil {
		return Addresses{}, fmt.Errorf("failed to derive faucet token address: %w", err)
	}
	return a, nil
}

func newInstruction(programID solana.PublicKey, ix faucet.Instruction, accounts ...*solana.AccountMeta) (solana.Instruction, error) {
	data, err := faucet.EncodeInstruction(ix)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

// InitializeInstruction builds the argument-less initialize call.
func InitializeInstruction(programID solana.PublicKey) (solana.Instruction, error) {
	return newInstruction(programID, &faucet.Initialize{})
}

// InitializeFaucetInstruction builds initialize_faucet for mint, paid and
// owned by signer.
func InitializeFaucetInstruction(programID, mint, signer solana.PublicKey, decimals, maxWithdraw uint64) (solana.Instruction, error) {
	addrs, err := DeriveAddresses(programID, mint)
	if err != nil {
		return nil, err
	}
	return newInstruction(programID, &faucet.InitializeFaucet{Decimals: decimals, MaxWithdraw: maxWithdraw},
		solana.Meta(mint).WRITE(),
		solana.Meta(addrs.Faucet).WRITE(),
		solana.Meta(signer).WRITE().SIGNER(),
		solana.Meta(addrs.FaucetAccount).WRITE(),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	)
}

// DepositInstruction builds deposit of n base units from source, a token
// account owned by signer.
func DepositInstruction(programID, mint, source, signer solana.PublicKey, n uint64) (solana.Instruction, error) {
	addrs, err := DeriveAddresses(programID, mint)
	if err != nil {
		return nil, err
	}
	return newInstruction(programID, &faucet.Deposit{N: n},
		solana.Meta(mint).WRITE(),
		solana.Meta(source).WRITE(),
		solana.Meta(addrs.FaucetAccount).WRITE(),
		solana.Meta(signer).WRITE().SIGNER(),
		solana.Meta(solana.TokenProgramID),
	)
}

// InitializeWithdrawerInstruction builds initialize_withdrawer for signer.
func InitializeWithdrawerInstruction(programID, signer solana.PublicKey) (solana.Instruction, error) {
	withdrawer, _, err := faucet.WithdrawerAddress(programID, signer)
	if err != nil {
		return nil, err
	}
	return newInstruction(programID, &faucet.InitializeWithdrawer{},
		solana.Meta(signer).WRITE().SIGNER(),
		solana.Meta(withdrawer).WRITE(),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(solana.SystemProgramID),
	)
}

// WithdrawInstruction builds withdraw of n whole tokens into dest.
func WithdrawInstruction(programID, mint, dest, signer solana.PublicKey, n uint64) (solana.Instruction, error) {
	addrs, err := DeriveAddresses(programID, mint)
	if err != nil {
		return nil, err
	}
	withdrawer, _, err := faucet.WithdrawerAddress(programID, signer)
	if err != nil {
		return nil, err
	}
	return newInstruction(programID, &faucet.Withdraw{N: n},
		solana.Meta(mint).WRITE(),
		solana.Meta(dest).WRITE(),
		solana.Meta(addrs.FaucetAccount).WRITE(),
		solana.Meta(addrs.Faucet).WRITE(),
		solana.Meta(withdrawer).WRITE(),
		solana.Meta(signer).WRITE().SIGNER(),
		solana.Meta(solana.SysVarClockPubkey),
		solana.Meta(solana.TokenProgramID),
	)
}
