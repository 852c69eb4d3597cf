// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/aplane-algo/faucet/internal/ledger"
	"github.com/aplane-algo/faucet/internal/util"
)

// RPCSubmitter sends transactions to a cluster over JSON-RPC.
type RPCSubmitter struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
}

// NewRPCSubmitter returns a submitter for the given endpoint using confirmed
// commitment.
func NewRPCSubmitter(endpoint string) *RPCSubmitter {
	return &RPCSubmitter{
		rpc:        rpc.New(endpoint),
		commitment: rpc.CommitmentConfirmed,
	}
}

func (s *RPCSubmitter) Submit(ctx context.Context, signer solana.PrivateKey, ixs ...solana.Instruction) (solana.Signature, error) {
	recent, err := s.rpc.GetLatestBlockhash(ctx, s.commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if recent == nil || recent.Value == nil {
		return solana.Signature{}, fmt.Errorf("failed to get latest blockhash: empty response")
	}

	tx, err := signTransaction(signer, recent.Value.Blockhash, ixs)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := s.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		Encoding:            solana.EncodingBase64,
		PreflightCommitment: s.commitment,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	util.Debug("transaction sent", "signature", sig.String(), "instructions", len(ixs))
	return sig, nil
}

func (s *RPCSubmitter) Account(ctx context.Context, addr solana.PublicKey) (*ledger.Account, error) {
	res, err := s.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: s.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) || (err == nil && (res == nil || res.Value == nil)) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", addr, err)
	}

	acct := &ledger.Account{Address: addr, Owner: res.Value.Owner}
	if res.Value.Data != nil {
		acct.Data = res.Value.Data.GetBinary()
	}
	return acct, nil
}
