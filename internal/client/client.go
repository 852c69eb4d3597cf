// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package client builds faucet instructions and submits them through a
// Submitter: a cluster over RPC or the in-process program.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/aplane-algo/faucet/internal/faucet"
	"github.com/aplane-algo/faucet/internal/ledger"
)

// ErrNoSigner is returned when a transaction is attempted without a signer.
var ErrNoSigner = errors.New("no signer configured")

// Client is the explicit configuration every call goes through: which
// program, who signs, and where transactions are sent.
type Client struct {
	ProgramID solana.PublicKey
	Signer    solana.PrivateKey
	Submitter Submitter
}

// New returns a Client. A zero programID selects faucet.DefaultProgramID.
func New(programID solana.PublicKey, signer solana.PrivateKey, submitter Submitter) *Client {
	if programID.IsZero() {
		programID = faucet.DefaultProgramID
	}
	return &Client{ProgramID: programID, Signer: signer, Submitter: submitter}
}

// SignerKey returns the public key of the configured signer.
func (c *Client) SignerKey() solana.PublicKey {
	if len(c.Signer) == 0 {
		return solana.PublicKey{}
	}
	return c.Signer.PublicKey()
}

func (c *Client) submit(ctx context.Context, ix solana.Instruction, err error) (solana.Signature, error) {
	if err != nil {
		return solana.Signature{}, err
	}
	if len(c.Signer) == 0 {
		return solana.Signature{}, ErrNoSigner
	}
	return c.Submitter.Submit(ctx, c.Signer, ix)
}

// Addresses derives the faucet addresses of mint under the client's program.
func (c *Client) Addresses(mint solana.PublicKey) (Addresses, error) {
	return DeriveAddresses(c.ProgramID, mint)
}

// Initialize calls the argument-less initialize instruction.
func (c *Client) Initialize(ctx context.Context) (solana.Signature, error) {
	ix, err := InitializeInstruction(c.ProgramID)
	return c.submit(ctx, ix, err)
}

// InitializeFaucet creates the faucet record and token pool for mint.
func (c *Client) InitializeFaucet(ctx context.Context, mint solana.PublicKey, decimals, maxWithdraw uint64) (solana.Signature, error) {
	ix, err := InitializeFaucetInstruction(c.ProgramID, mint, c.SignerKey(), decimals, maxWithdraw)
	return c.submit(ctx, ix, err)
}

// Deposit moves n base units from source into the faucet pool of mint.
func (c *Client) Deposit(ctx context.Context, mint, source solana.PublicKey, n uint64) (solana.Signature, error) {
	ix, err := DepositInstruction(c.ProgramID, mint, source, c.SignerKey(), n)
	return c.submit(ctx, ix, err)
}

// InitializeWithdrawer creates the signer's withdrawer record.
func (c *Client) InitializeWithdrawer(ctx context.Context) (solana.Signature, error) {
	ix, err := InitializeWithdrawerInstruction(c.ProgramID, c.SignerKey())
	return c.submit(ctx, ix, err)
}

// Withdraw takes n whole tokens of mint from the faucet into dest.
func (c *Client) Withdraw(ctx context.Context, mint, dest solana.PublicKey, n uint64) (solana.Signature, error) {
	ix, err := WithdrawInstruction(c.ProgramID, mint, dest, c.SignerKey(), n)
	return c.submit(ctx, ix, err)
}

// Faucet fetches and decodes the faucet record of mint.
func (c *Client) Faucet(ctx context.Context, mint solana.PublicKey) (*faucet.Faucet, error) {
	addr, _, err := faucet.FaucetAddress(c.ProgramID, mint)
	if err != nil {
		return nil, err
	}
	acct, err := c.ownedAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	return faucet.DecodeFaucet(acct.Data)
}

// Withdrawer fetches and decodes the withdrawer record of owner.
func (c *Client) Withdrawer(ctx context.Context, owner solana.PublicKey) (*faucet.Withdrawer, error) {
	addr, _, err := faucet.WithdrawerAddress(c.ProgramID, owner)
	if err != nil {
		return nil, err
	}
	acct, err := c.ownedAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	return faucet.DecodeWithdrawer(acct.Data)
}

// TokenBalance returns the amount held by the token account at addr.
func (c *Client) TokenBalance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	acct, err := c.Submitter.Account(ctx, addr)
	if err != nil {
		return 0, err
	}
	if !acct.Owner.Equals(solana.TokenProgramID) {
		return 0, fmt.Errorf("%w: %s", ledger.ErrNotTokenAccount, addr)
	}
	ta, err := ledger.DecodeTokenAccount(acct.Data)
	if err != nil {
		return 0, err
	}
	return ta.Amount, nil
}

func (c *Client) ownedAccount(ctx context.Context, addr solana.PublicKey) (*ledger.Account, error) {
	acct, err := c.Submitter.Account(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(c.ProgramID) {
		return nil, fmt.Errorf("%w: %s is owned by %s", faucet.ErrAccountOwner, addr, acct.Owner)
	}
	return acct, nil
}
