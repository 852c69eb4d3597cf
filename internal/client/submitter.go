// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/aplane-algo/faucet/internal/ledger"
)

// ErrUnsupportedProgram is returned by the local submitter for instructions
// addressed to programs it does not run.
var ErrUnsupportedProgram = errors.New("unsupported program")

// Submitter sends signed transactions and reads accounts.
type Submitter interface {
	// Submit signs one transaction containing ixs with signer as fee payer
	// and sends it.
	Submit(ctx context.Context, signer solana.PrivateKey, ixs ...solana.Instruction) (solana.Signature, error)
	// Account fetches the account at addr. A missing account yields an
	// error wrapping ledger.ErrAccountNotFound.
	Account(ctx context.Context, addr solana.PublicKey) (*ledger.Account, error)
}

// signTransaction builds and signs a legacy transaction for ixs.
func signTransaction(signer solana.PrivateKey, blockhash solana.Hash, ixs []solana.Instruction) (*solana.Transaction, error) {
	if len(ixs) == 0 {
		return nil, fmt.Errorf("no instructions to submit")
	}
	payer := signer.PublicKey()

	tx, err := solana.NewTransaction(ixs, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &signer
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}
