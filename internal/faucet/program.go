// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package faucet implements the token faucet program: the faucet record and
// its token pool per mint, per-signer withdrawer records, and the deposit and
// rate-limited withdraw instructions that move tokens between them.
//
// Account addresses are program-derived (see package pda) from the seeds in
// seeds.go. Account and instruction data use the 8-byte sha256 discriminator
// followed by borsh-encoded fields, the layout the deployed program reads.
package faucet

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/aplane-algo/faucet/internal/ledger"
	"github.com/aplane-algo/faucet/internal/util"
)

// DefaultCooldown is the minimum time between two withdrawals by one signer.
const DefaultCooldown = 60 * time.Second

// Program executes faucet instructions against ledger transactions.
type Program struct {
	ID       solana.PublicKey
	Cooldown time.Duration
	// Now supplies the clock sysvar. Defaults to time.Now.
	Now func() time.Time
}

// NewProgram returns a Program deployed at id with the default cooldown.
func NewProgram(id solana.PublicKey) *Program {
	return &Program{ID: id, Cooldown: DefaultCooldown, Now: time.Now}
}

// Execute decodes data and runs the instruction with accounts inside tx.
// Signer flags on accounts must reflect verified signatures.
func (p *Program) Execute(tx *ledger.Tx, accounts []*solana.AccountMeta, data []byte) error {
	ix, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	util.Debug("program invoke", "program", p.ID.String(), "instruction", ix.Name())

	accts := accountList(accounts)
	switch ix := ix.(type) {
	case *Initialize:
		err = nil
	case *InitializeFaucet:
		err = p.initializeFaucet(tx, accts, ix)
	case *Deposit:
		err = p.deposit(tx, accts, ix)
	case *InitializeWithdrawer:
		err = p.initializeWithdrawer(tx, accts)
	case *Withdraw:
		err = p.withdraw(tx, accts, ix)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownInstruction, ix.Name())
	}
	if err != nil {
		util.Debug("program failed", "instruction", ix.Name(), "error", err)
		return fmt.Errorf("%s: %w", ix.Name(), err)
	}
	util.Debug("program success", "instruction", ix.Name())
	return nil
}

func (p *Program) initializeFaucet(tx *ledger.Tx, accts accountList, ix *InitializeFaucet) error {
	if err := accts.require(7); err != nil {
		return err
	}
	mint, faucet, signer, faucetAccount := accts[0], accts[1], accts[2], accts[3]

	if err := requireSigner(signer, "signer"); err != nil {
		return err
	}
	if err := requireWritable(faucet, "faucet"); err != nil {
		return err
	}
	if err := requireWritable(faucetAccount, "faucet_account"); err != nil {
		return err
	}
	if err := requireKey(accts[4], solana.SysVarRentPubkey, "rent"); err != nil {
		return err
	}
	if err := requireKey(accts[5], solana.SystemProgramID, "system_program"); err != nil {
		return err
	}
	if err := requireKey(accts[6], solana.TokenProgramID, "token_program"); err != nil {
		return err
	}

	faucetAddr, bump, err := FaucetAddress(p.ID, mint.PublicKey)
	if err != nil {
		return err
	}
	if err := requireDerived(faucet, faucetAddr, "faucet"); err != nil {
		return err
	}
	tokenAddr, _, err := FaucetTokenAddress(p.ID, mint.PublicKey)
	if err != nil {
		return err
	}
	if err := requireDerived(faucetAccount, tokenAddr, "faucet_account"); err != nil {
		return err
	}

	for _, addr := range []solana.PublicKey{faucetAddr, tokenAddr} {
		exists, err := tx.Exists(addr)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrAccountInUse, addr)
		}
	}
	if _, err := tx.GetMint(mint.PublicKey); err != nil {
		return mapLedgerErr(err, "mint")
	}

	data, err := EncodeFaucet(&Faucet{
		Bump:        bump,
		Mint:        mint.PublicKey,
		Owner:       signer.PublicKey,
		MaxWithdraw: ix.MaxWithdraw,
		Decimals:    ix.Decimals,
	})
	if err != nil {
		return err
	}
	if err := tx.Create(&ledger.Account{Address: faucetAddr, Owner: p.ID, Data: data}); err != nil {
		return err
	}
	return tx.CreateTokenAccount(tokenAddr, mint.PublicKey, faucetAddr)
}

func (p *Program) deposit(tx *ledger.Tx, accts accountList, ix *Deposit) error {
	if err := accts.require(5); err != nil {
		return err
	}
	mint, signerAccount, faucetAccount, signer := accts[0], accts[1], accts[2], accts[3]

	if err := requireSigner(signer, "signer"); err != nil {
		return err
	}
	if err := requireWritable(signerAccount, "signer_account"); err != nil {
		return err
	}
	if err := requireWritable(faucetAccount, "faucet_account"); err != nil {
		return err
	}
	if err := requireKey(accts[4], solana.TokenProgramID, "token_program"); err != nil {
		return err
	}

	tokenAddr, _, err := FaucetTokenAddress(p.ID, mint.PublicKey)
	if err != nil {
		return err
	}
	if err := requireDerived(faucetAccount, tokenAddr, "faucet_account"); err != nil {
		return err
	}

	err = tx.Transfer(signerAccount.PublicKey, faucetAccount.PublicKey, signer.PublicKey, ix.N)
	return mapLedgerErr(err, "deposit")
}

func (p *Program) initializeWithdrawer(tx *ledger.Tx, accts accountList) error {
	if err := accts.require(4); err != nil {
		return err
	}
	signer, withdrawer := accts[0], accts[1]

	if err := requireSigner(signer, "signer"); err != nil {
		return err
	}
	if err := requireWritable(withdrawer, "withdrawer"); err != nil {
		return err
	}
	if err := requireKey(accts[2], solana.SysVarRentPubkey, "rent"); err != nil {
		return err
	}
	if err := requireKey(accts[3], solana.SystemProgramID, "system_program"); err != nil {
		return err
	}

	addr, _, err := WithdrawerAddress(p.ID, signer.PublicKey)
	if err != nil {
		return err
	}
	if err := requireDerived(withdrawer, addr, "withdrawer"); err != nil {
		return err
	}

	data, err := EncodeWithdrawer(&Withdrawer{Owner: signer.PublicKey})
	if err != nil {
		return err
	}
	err = tx.Create(&ledger.Account{Address: addr, Owner: p.ID, Data: data})
	return mapLedgerErr(err, "withdrawer")
}

func (p *Program) withdraw(tx *ledger.Tx, accts accountList, ix *Withdraw) error {
	if err := accts.require(8); err != nil {
		return err
	}
	mint, withdrawerAccount, faucetAccount := accts[0], accts[1], accts[2]
	faucetMeta, withdrawerMeta, signer := accts[3], accts[4], accts[5]

	if err := requireSigner(signer, "signer"); err != nil {
		return err
	}
	if err := requireWritable(withdrawerAccount, "withdrawer_account"); err != nil {
		return err
	}
	if err := requireWritable(faucetAccount, "faucet_account"); err != nil {
		return err
	}
	if err := requireWritable(withdrawerMeta, "withdrawer"); err != nil {
		return err
	}
	if err := requireKey(accts[6], solana.SysVarClockPubkey, "clock"); err != nil {
		return err
	}
	if err := requireKey(accts[7], solana.TokenProgramID, "token_program"); err != nil {
		return err
	}

	faucet, err := p.loadFaucet(tx, faucetMeta.PublicKey)
	if err != nil {
		return err
	}
	withdrawer, err := p.loadWithdrawer(tx, withdrawerMeta.PublicKey)
	if err != nil {
		return err
	}

	if !mint.PublicKey.Equals(faucet.Mint) {
		return ErrMintMismatch
	}
	if !signer.PublicKey.Equals(withdrawer.Owner) {
		return ErrOwnerMismatch
	}

	now := p.now().Unix()
	if now-int64(p.Cooldown/time.Second) <= withdrawer.LastWithdraw {
		return fmt.Errorf("%w: last withdrawal at %d, now %d", ErrRateLimited, withdrawer.LastWithdraw, now)
	}
	if ix.N > faucet.MaxWithdraw {
		return fmt.Errorf("%w: requested %d, max %d", ErrMaxWithdrawExceeded, ix.N, faucet.MaxWithdraw)
	}
	hi, amount := bits.Mul64(ix.N, faucet.Decimals)
	if hi != 0 {
		return ErrOverflow
	}

	authority, err := faucetSignerAddress(p.ID, faucet.Mint, faucet.Bump)
	if err != nil {
		return err
	}
	if !authority.Equals(faucetMeta.PublicKey) {
		return fmt.Errorf("%w: faucet", ErrInvalidAddress)
	}
	tokenAddr, _, err := FaucetTokenAddress(p.ID, faucet.Mint)
	if err != nil {
		return err
	}
	if err := requireDerived(faucetAccount, tokenAddr, "faucet_account"); err != nil {
		return err
	}

	if err := tx.Transfer(faucetAccount.PublicKey, withdrawerAccount.PublicKey, authority, amount); err != nil {
		return mapLedgerErr(err, "withdraw")
	}

	withdrawer.LastWithdraw = now
	data, err := EncodeWithdrawer(withdrawer)
	if err != nil {
		return err
	}
	tx.Put(&ledger.Account{Address: withdrawerMeta.PublicKey, Owner: p.ID, Data: data})
	return nil
}

func (p *Program) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Program) loadOwned(tx *ledger.Tx, addr solana.PublicKey) (*ledger.Account, error) {
	acct, err := tx.Get(addr)
	if err != nil {
		return nil, mapLedgerErr(err, addr.String())
	}
	if !acct.Owner.Equals(p.ID) {
		return nil, fmt.Errorf("%w: %s", ErrAccountOwner, addr)
	}
	return acct, nil
}

func (p *Program) loadFaucet(tx *ledger.Tx, addr solana.PublicKey) (*Faucet, error) {
	acct, err := p.loadOwned(tx, addr)
	if err != nil {
		return nil, err
	}
	return DecodeFaucet(acct.Data)
}

func (p *Program) loadWithdrawer(tx *ledger.Tx, addr solana.PublicKey) (*Withdrawer, error) {
	acct, err := p.loadOwned(tx, addr)
	if err != nil {
		return nil, err
	}
	return DecodeWithdrawer(acct.Data)
}

type accountList []*solana.AccountMeta

func (a accountList) require(n int) error {
	if len(a) < n {
		return fmt.Errorf("%w: got %d, need %d", ErrNotEnoughAccounts, len(a), n)
	}
	for i := 0; i < n; i++ {
		if a[i] == nil {
			return fmt.Errorf("%w: account %d is nil", ErrNotEnoughAccounts, i)
		}
	}
	return nil
}

func requireSigner(meta *solana.AccountMeta, name string) error {
	if !meta.IsSigner {
		return fmt.Errorf("%w: %s", ErrMissingSigner, name)
	}
	return requireWritable(meta, name)
}

func requireWritable(meta *solana.AccountMeta, name string) error {
	if !meta.IsWritable {
		return fmt.Errorf("%w: %s", ErrAccountNotWritable, name)
	}
	return nil
}

func requireKey(meta *solana.AccountMeta, want solana.PublicKey, name string) error {
	if !meta.PublicKey.Equals(want) {
		return fmt.Errorf("%w: %s is %s, want %s", ErrInvalidProgramID, name, meta.PublicKey, want)
	}
	return nil
}

func requireDerived(meta *solana.AccountMeta, want solana.PublicKey, name string) error {
	if !meta.PublicKey.Equals(want) {
		return fmt.Errorf("%w: %s is %s, want %s", ErrInvalidAddress, name, meta.PublicKey, want)
	}
	return nil
}

// mapLedgerErr translates ledger errors into program errors, keeping token
// errors as they are.
func mapLedgerErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrAccountNotFound):
		return fmt.Errorf("%w: %s: %v", ErrAccountNotFound, what, err)
	case errors.Is(err, ledger.ErrAccountExists):
		return fmt.Errorf("%w: %s: %v", ErrAccountInUse, what, err)
	default:
		return err
	}
}
