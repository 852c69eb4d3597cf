// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package faucet

import (
	"math"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplane-algo/faucet/internal/ledger"
	"github.com/aplane-algo/faucet/internal/testutil"
)

type fixture struct {
	program   *Program
	ledger    *ledger.Ledger
	now       time.Time
	mint      solana.PublicKey
	signer    solana.PublicKey
	signerATA solana.PublicKey
}

// newFixture creates a mint whose authority is the signer and funds the
// signer's token account with 10^12 base units.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger:    ledger.New(ledger.NewMemStore()),
		now:       time.Unix(1_700_000_000, 0),
		mint:      testutil.NewAddress(t),
		signer:    testutil.NewAddress(t),
		signerATA: testutil.NewAddress(t),
	}
	f.program = NewProgram(DefaultProgramID)
	f.program.Now = func() time.Time { return f.now }

	require.NoError(t, f.ledger.Update(func(tx *ledger.Tx) error {
		if err := tx.CreateMint(f.mint, f.signer, 6); err != nil {
			return err
		}
		if err := tx.CreateTokenAccount(f.signerATA, f.mint, f.signer); err != nil {
			return err
		}
		return tx.MintTo(f.mint, f.signerATA, f.signer, 1_000_000_000_000)
	}))
	return f
}

func (f *fixture) exec(ix Instruction, metas ...*solana.AccountMeta) error {
	data, err := EncodeInstruction(ix)
	if err != nil {
		return err
	}
	return f.ledger.Update(func(tx *ledger.Tx) error {
		return f.program.Execute(tx, metas, data)
	})
}

func (f *fixture) addresses(t *testing.T, mint solana.PublicKey) (faucet, pool solana.PublicKey) {
	t.Helper()
	faucet, _, err := FaucetAddress(f.program.ID, mint)
	require.NoError(t, err)
	pool, _, err = FaucetTokenAddress(f.program.ID, mint)
	require.NoError(t, err)
	return faucet, pool
}

func (f *fixture) initializeFaucet(t *testing.T, decimals, maxWithdraw uint64) error {
	t.Helper()
	faucet, pool := f.addresses(t, f.mint)
	return f.exec(&InitializeFaucet{Decimals: decimals, MaxWithdraw: maxWithdraw},
		solana.NewAccountMeta(f.mint, true, false),
		solana.NewAccountMeta(faucet, true, false),
		solana.NewAccountMeta(f.signer, true, true),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	)
}

func (f *fixture) deposit(t *testing.T, n uint64) error {
	t.Helper()
	_, pool := f.addresses(t, f.mint)
	return f.exec(&Deposit{N: n},
		solana.NewAccountMeta(f.mint, true, false),
		solana.NewAccountMeta(f.signerATA, true, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(f.signer, true, true),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	)
}

func (f *fixture) initializeWithdrawer(t *testing.T, signer solana.PublicKey) error {
	t.Helper()
	withdrawer, _, err := WithdrawerAddress(f.program.ID, signer)
	require.NoError(t, err)
	return f.exec(&InitializeWithdrawer{},
		solana.NewAccountMeta(signer, true, true),
		solana.NewAccountMeta(withdrawer, true, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	)
}

func (f *fixture) withdraw(t *testing.T, signer, dest, withdrawer solana.PublicKey, n uint64) error {
	t.Helper()
	faucet, pool := f.addresses(t, f.mint)
	return f.exec(&Withdraw{N: n},
		solana.NewAccountMeta(f.mint, true, false),
		solana.NewAccountMeta(dest, true, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(faucet, true, false),
		solana.NewAccountMeta(withdrawer, true, false),
		solana.NewAccountMeta(signer, true, true),
		solana.NewAccountMeta(solana.SysVarClockPubkey, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	)
}

func (f *fixture) balance(t *testing.T, addr solana.PublicKey) uint64 {
	t.Helper()
	acct, err := f.ledger.Account(addr)
	require.NoError(t, err)
	ta, err := ledger.DecodeTokenAccount(acct.Data)
	require.NoError(t, err)
	return ta.Amount
}

// withdrawerSetup returns a funded faucet and an initialized withdrawer with
// an empty token account.
func withdrawerSetup(t *testing.T) (f *fixture, dest, withdrawer solana.PublicKey) {
	f = newFixture(t)
	require.NoError(t, f.initializeFaucet(t, 1_000_000, 10_000))
	require.NoError(t, f.deposit(t, 500_000_000))
	require.NoError(t, f.initializeWithdrawer(t, f.signer))

	dest = testutil.NewAddress(t)
	require.NoError(t, f.ledger.Update(func(tx *ledger.Tx) error {
		return tx.CreateTokenAccount(dest, f.mint, f.signer)
	}))
	withdrawer, _, err := WithdrawerAddress(f.program.ID, f.signer)
	require.NoError(t, err)
	return f, dest, withdrawer
}

func TestInitialize_AcceptsNoAccounts(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.exec(&Initialize{}))
	assert.NoError(t, f.exec(&Initialize{}))
}

func TestInitializeFaucet(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.initializeFaucet(t, 1_000_000, 10_000))

	faucetAddr, pool := f.addresses(t, f.mint)
	_, bump, err := FaucetAddress(f.program.ID, f.mint)
	require.NoError(t, err)

	acct, err := f.ledger.Account(faucetAddr)
	require.NoError(t, err)
	assert.Equal(t, f.program.ID, acct.Owner)
	assert.Len(t, acct.Data, FaucetSpace)

	record, err := DecodeFaucet(acct.Data)
	require.NoError(t, err)
	assert.Equal(t, &Faucet{
		Bump:        bump,
		Mint:        f.mint,
		Owner:       f.signer,
		MaxWithdraw: 10_000,
		Decimals:    1_000_000,
	}, record)

	poolAcct, err := f.ledger.Account(pool)
	require.NoError(t, err)
	ta, err := ledger.DecodeTokenAccount(poolAcct.Data)
	require.NoError(t, err)
	assert.Equal(t, f.mint, ta.Mint)
	assert.Equal(t, faucetAddr, ta.Owner)
	assert.Zero(t, ta.Amount)
}

func TestInitializeFaucet_SecondCallRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.initializeFaucet(t, 1_000_000, 10_000))

	err := f.initializeFaucet(t, 1_000_000, 10_000)
	assert.ErrorIs(t, err, ErrAccountInUse)

	err = f.initializeFaucet(t, 5, 5)
	assert.ErrorIs(t, err, ErrAccountInUse)

	faucetAddr, _ := f.addresses(t, f.mint)
	acct, err := f.ledger.Account(faucetAddr)
	require.NoError(t, err)
	record, err := DecodeFaucet(acct.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), record.MaxWithdraw)
}

func TestInitializeFaucet_AccountChecks(t *testing.T) {
	f := newFixture(t)
	faucet, pool := f.addresses(t, f.mint)

	metas := func() []*solana.AccountMeta {
		return []*solana.AccountMeta{
			solana.NewAccountMeta(f.mint, true, false),
			solana.NewAccountMeta(faucet, true, false),
			solana.NewAccountMeta(f.signer, true, true),
			solana.NewAccountMeta(pool, true, false),
			solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
			solana.NewAccountMeta(solana.SystemProgramID, false, false),
			solana.NewAccountMeta(solana.TokenProgramID, false, false),
		}
	}
	ix := &InitializeFaucet{Decimals: 1, MaxWithdraw: 1}

	m := metas()
	m[2].IsSigner = false
	assert.ErrorIs(t, f.exec(ix, m...), ErrMissingSigner)

	m = metas()
	m[1].PublicKey = pool
	assert.ErrorIs(t, f.exec(ix, m...), ErrInvalidAddress)

	m = metas()
	m[3].PublicKey = testutil.NewAddress(t)
	assert.ErrorIs(t, f.exec(ix, m...), ErrInvalidAddress)

	m = metas()
	m[6].PublicKey = solana.SystemProgramID
	assert.ErrorIs(t, f.exec(ix, m...), ErrInvalidProgramID)

	m = metas()
	m[1].IsWritable = false
	assert.ErrorIs(t, f.exec(ix, m...), ErrAccountNotWritable)

	assert.ErrorIs(t, f.exec(ix, metas()[:6]...), ErrNotEnoughAccounts)

	// Nothing was created by the failed attempts.
	_, err := f.ledger.Account(faucet)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestInitializeFaucet_UnknownMint(t *testing.T) {
	f := newFixture(t)
	f.mint = testutil.NewAddress(t)
	assert.ErrorIs(t, f.initializeFaucet(t, 1, 1), ErrAccountNotFound)
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.initializeFaucet(t, 1_000_000, 10_000))
	require.NoError(t, f.deposit(t, 250))

	_, pool := f.addresses(t, f.mint)
	assert.Equal(t, uint64(250), f.balance(t, pool))
	assert.Equal(t, uint64(1_000_000_000_000-250), f.balance(t, f.signerATA))
}

func TestDeposit_RequiresFaucetPool(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.initializeFaucet(t, 1_000_000, 10_000))

	other := testutil.NewAddress(t)
	require.NoError(t, f.ledger.Update(func(tx *ledger.Tx) error {
		return tx.CreateTokenAccount(other, f.mint, f.signer)
	}))
	err := f.exec(&Deposit{N: 1},
		solana.NewAccountMeta(f.mint, true, false),
		solana.NewAccountMeta(f.signerATA, true, false),
		solana.NewAccountMeta(other, true, false),
		solana.NewAccountMeta(f.signer, true, true),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestDeposit_InsufficientFunds(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.initializeFaucet(t, 1_000_000, 10_000))
	assert.ErrorIs(t, f.deposit(t, 1_000_000_000_001), ledger.ErrInsufficientFunds)
}

func TestInitializeWithdrawer(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.initializeWithdrawer(t, f.signer))

	addr, _, err := WithdrawerAddress(f.program.ID, f.signer)
	require.NoError(t, err)
	acct, err := f.ledger.Account(addr)
	require.NoError(t, err)
	w, err := DecodeWithdrawer(acct.Data)
	require.NoError(t, err)
	assert.Equal(t, &Withdrawer{Owner: f.signer}, w)

	assert.ErrorIs(t, f.initializeWithdrawer(t, f.signer), ErrAccountInUse)
}

func TestWithdraw(t *testing.T) {
	f, dest, withdrawer := withdrawerSetup(t)

	require.NoError(t, f.withdraw(t, f.signer, dest, withdrawer, 5))
	assert.Equal(t, uint64(5_000_000), f.balance(t, dest))

	_, pool := f.addresses(t, f.mint)
	assert.Equal(t, uint64(495_000_000), f.balance(t, pool))

	acct, err := f.ledger.Account(withdrawer)
	require.NoError(t, err)
	w, err := DecodeWithdrawer(acct.Data)
	require.NoError(t, err)
	assert.Equal(t, f.now.Unix(), w.LastWithdraw)
}

func TestWithdraw_RateLimited(t *testing.T) {
	f, dest, withdrawer := withdrawerSetup(t)
	require.NoError(t, f.withdraw(t, f.signer, dest, withdrawer, 1))

	assert.ErrorIs(t, f.withdraw(t, f.signer, dest, withdrawer, 1), ErrRateLimited)

	f.now = f.now.Add(DefaultCooldown)
	assert.ErrorIs(t, f.withdraw(t, f.signer, dest, withdrawer, 1), ErrRateLimited)

	f.now = f.now.Add(time.Second)
	require.NoError(t, f.withdraw(t, f.signer, dest, withdrawer, 1))
	assert.Equal(t, uint64(2_000_000), f.balance(t, dest))
}

func TestWithdraw_CustomCooldown(t *testing.T) {
	f, dest, withdrawer := withdrawerSetup(t)
	f.program.Cooldown = 0

	require.NoError(t, f.withdraw(t, f.signer, dest, withdrawer, 1))
	assert.ErrorIs(t, f.withdraw(t, f.signer, dest, withdrawer, 1), ErrRateLimited)
	f.now = f.now.Add(time.Second)
	assert.NoError(t, f.withdraw(t, f.signer, dest, withdrawer, 1))
}

func TestWithdraw_MaxExceeded(t *testing.T) {
	f, dest, withdrawer := withdrawerSetup(t)
	assert.ErrorIs(t, f.withdraw(t, f.signer, dest, withdrawer, 10_001), ErrMaxWithdrawExceeded)
	assert.Zero(t, f.balance(t, dest))
}

func TestWithdraw_PoolExhausted(t *testing.T) {
	f, dest, withdrawer := withdrawerSetup(t)
	// 500 tokens in the pool
	assert.ErrorIs(t, f.withdraw(t, f.signer, dest, withdrawer, 501), ledger.ErrInsufficientFunds)

	acct, err := f.ledger.Account(withdrawer)
	require.NoError(t, err)
	w, err := DecodeWithdrawer(acct.Data)
	require.NoError(t, err)
	assert.Zero(t, w.LastWithdraw, "failed withdraw must not update the rate limit")
}

func TestWithdraw_WrongOwner(t *testing.T) {
	f, dest, withdrawer := withdrawerSetup(t)
	thief := testutil.NewAddress(t)
	assert.ErrorIs(t, f.withdraw(t, thief, dest, withdrawer, 1), ErrOwnerMismatch)
}

func TestWithdraw_MintMismatch(t *testing.T) {
	f, dest, withdrawer := withdrawerSetup(t)
	faucet, pool := f.addresses(t, f.mint)

	err := f.exec(&Withdraw{N: 1},
		solana.NewAccountMeta(testutil.NewAddress(t), true, false),
		solana.NewAccountMeta(dest, true, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(faucet, true, false),
		solana.NewAccountMeta(withdrawer, true, false),
		solana.NewAccountMeta(f.signer, true, true),
		solana.NewAccountMeta(solana.SysVarClockPubkey, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	)
	assert.ErrorIs(t, err, ErrMintMismatch)
}

func TestWithdraw_Overflow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.initializeFaucet(t, math.MaxUint64, math.MaxUint64))
	require.NoError(t, f.initializeWithdrawer(t, f.signer))
	withdrawer, _, err := WithdrawerAddress(f.program.ID, f.signer)
	require.NoError(t, err)

	assert.ErrorIs(t, f.withdraw(t, f.signer, f.signerATA, withdrawer, 2), ErrOverflow)
}

func TestWithdraw_ForeignAccountRejected(t *testing.T) {
	f, dest, withdrawer := withdrawerSetup(t)

	// A faucet-shaped account not owned by the program.
	fake := testutil.NewAddress(t)
	require.NoError(t, f.ledger.Update(func(tx *ledger.Tx) error {
		data, err := EncodeFaucet(&Faucet{Mint: f.mint, MaxWithdraw: 1 << 40, Decimals: 1})
		if err != nil {
			return err
		}
		tx.Put(&ledger.Account{Address: fake, Owner: solana.SystemProgramID, Data: data})
		return nil
	}))

	_, pool := f.addresses(t, f.mint)
	err := f.exec(&Withdraw{N: 1},
		solana.NewAccountMeta(f.mint, true, false),
		solana.NewAccountMeta(dest, true, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(fake, true, false),
		solana.NewAccountMeta(withdrawer, true, false),
		solana.NewAccountMeta(f.signer, true, true),
		solana.NewAccountMeta(solana.SysVarClockPubkey, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	)
	assert.ErrorIs(t, err, ErrAccountOwner)
}
