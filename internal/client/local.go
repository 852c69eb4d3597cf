// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package client

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/aplane-algo/faucet/internal/faucet"
	"github.com/aplane-algo/faucet/internal/ledger"
	"github.com/aplane-algo/faucet/internal/util"
)

// LocalSubmitter runs transactions against the in-process faucet program.
// Every transaction is signed and verified like on a cluster, then all of its
// instructions execute in one ledger update: either all apply or none do.
type LocalSubmitter struct {
	Ledger  *ledger.Ledger
	Program *faucet.Program

	mu   sync.Mutex
	slot uint64
}

// NewLocalSubmitter returns a LocalSubmitter for program over l.
func NewLocalSubmitter(l *ledger.Ledger, program *faucet.Program) *LocalSubmitter {
	return &LocalSubmitter{Ledger: l, Program: program}
}

// nextBlockhash advances the local slot. Each transaction gets a fresh
// blockhash so identical instructions still produce distinct signatures.
func (s *LocalSubmitter) nextBlockhash() solana.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slot++
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], s.slot)
	return solana.Hash(sha256.Sum256(append([]byte("local-slot"), buf[:]...)))
}

func (s *LocalSubmitter) Submit(ctx context.Context, signer solana.PrivateKey, ixs ...solana.Instruction) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, err
	}

	tx, err := signTransaction(signer, s.nextBlockhash(), ixs)
	if err != nil {
		return solana.Signature{}, err
	}
	signers, err := verifiedSigners(tx)
	if err != nil {
		return solana.Signature{}, err
	}

	err = s.Ledger.Update(func(ltx *ledger.Tx) error {
		for i, ix := range ixs {
			if !ix.ProgramID().Equals(s.Program.ID) {
				return fmt.Errorf("instruction %d: %w: %s", i, ErrUnsupportedProgram, ix.ProgramID())
			}
			data, err := ix.Data()
			if err != nil {
				return fmt.Errorf("instruction %d: %w", i, err)
			}
			if err := s.Program.Execute(ltx, withSigners(ix.Accounts(), signers), data); err != nil {
				return fmt.Errorf("instruction %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, err
	}

	sig := tx.Signatures[0]
	util.Debug("local transaction committed", "signature", sig.String(), "instructions", len(ixs))
	return sig, nil
}

func (s *LocalSubmitter) Account(ctx context.Context, addr solana.PublicKey) (*ledger.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Ledger.Account(addr)
}

// verifiedSigners checks every signature against the message and returns the
// keys that signed.
func verifiedSigners(tx *solana.Transaction) (map[solana.PublicKey]bool, error) {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %w", err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) != required || len(tx.Message.AccountKeys) < required {
		return nil, fmt.Errorf("transaction has %d signatures, message requires %d", len(tx.Signatures), required)
	}

	signers := make(map[solana.PublicKey]bool, required)
	for i := 0; i < required; i++ {
		key := tx.Message.AccountKeys[i]
		if !tx.Signatures[i].Verify(key, msg) {
			return nil, fmt.Errorf("invalid signature for %s", key)
		}
		signers[key] = true
	}
	return signers, nil
}

// withSigners copies metas, keeping the signer flag only for keys that
// actually signed.
func withSigners(metas []*solana.AccountMeta, signers map[solana.PublicKey]bool) []*solana.AccountMeta {
	out := make([]*solana.AccountMeta, len(metas))
	for i, m := range metas {
		out[i] = &solana.AccountMeta{
			PublicKey:  m.PublicKey,
			IsWritable: m.IsWritable,
			IsSigner:   m.IsSigner && signers[m.PublicKey],
		}
	}
	return out
}
