// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package ledger

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Packed sizes of the token program's account layouts.
const (
	MintSize         = 82
	TokenAccountSize = 165
)

var (
	// ErrInsufficientFunds is returned when a transfer exceeds the source balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAuthorityMismatch is returned when the supplied authority does not
	// own the source account or mint.
	ErrAuthorityMismatch = errors.New("owner does not match")

	// ErrMintMismatch is returned when token accounts of different mints meet.
	ErrMintMismatch = errors.New("account not associated with this mint")

	// ErrNotTokenAccount is returned when an account is not owned by the
	// token program or has the wrong size.
	ErrNotTokenAccount = errors.New("invalid token program account")

	// ErrSupplyOverflow is returned when minting would overflow the supply.
	ErrSupplyOverflow = errors.New("mint supply overflow")
)

// Mint is the token program's mint layout.
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

// TokenAccount is the token program's account layout. Delegation, native
// wrapping and close authorities are carried but never set here.
type TokenAccount struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        *solana.PublicKey
	State           uint8
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

// Token account states.
const (
	AccountUninitialized uint8 = iota
	AccountInitialized
	AccountFrozen
)

func (m *Mint) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := writeOptionalKey(enc, m.MintAuthority); err != nil {
		return err
	}
	if err := enc.WriteUint64(m.Supply, binary.LittleEndian); err != nil {
		return err
	}
	if err := enc.WriteUint8(m.Decimals); err != nil {
		return err
	}
	if err := enc.WriteBool(m.IsInitialized); err != nil {
		return err
	}
	return writeOptionalKey(enc, m.FreezeAuthority)
}

func (m *Mint) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if m.MintAuthority, err = readOptionalKey(dec); err != nil {
		return err
	}
	if m.Supply, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return err
	}
	if m.IsInitialized, err = dec.ReadBool(); err != nil {
		return err
	}
	m.FreezeAuthority, err = readOptionalKey(dec)
	return err
}

func (a *TokenAccount) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(a.Mint[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(a.Owner[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.Amount, binary.LittleEndian); err != nil {
		return err
	}
	if err := writeOptionalKey(enc, a.Delegate); err != nil {
		return err
	}
	if err := enc.WriteUint8(a.State); err != nil {
		return err
	}
	if err := writeOptionalUint64(enc, a.IsNative); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.DelegatedAmount, binary.LittleEndian); err != nil {
		return err
	}
	return writeOptionalKey(enc, a.CloseAuthority)
}

func (a *TokenAccount) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	mint, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	a.Mint = solana.PublicKeyFromBytes(mint)
	owner, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	a.Owner = solana.PublicKeyFromBytes(owner)
	if a.Amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	if a.Delegate, err = readOptionalKey(dec); err != nil {
		return err
	}
	if a.State, err = dec.ReadUint8(); err != nil {
		return err
	}
	if a.IsNative, err = readOptionalUint64(dec); err != nil {
		return err
	}
	if a.DelegatedAmount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	a.CloseAuthority, err = readOptionalKey(dec)
	return err
}

// COption is a u32 tag followed by the value, which is zeroed when absent.
func writeOptionalKey(enc *bin.Encoder, key *solana.PublicKey) error {
	var tag uint32
	var value solana.PublicKey
	if key != nil {
		tag, value = 1, *key
	}
	if err := enc.WriteUint32(tag, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes(value[:], false)
}

func readOptionalKey(dec *bin.Decoder) (*solana.PublicKey, error) {
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	key := solana.PublicKeyFromBytes(raw)
	return &key, nil
}

func writeOptionalUint64(enc *bin.Encoder, v *uint64) error {
	var tag uint32
	var value uint64
	if v != nil {
		tag, value = 1, *v
	}
	if err := enc.WriteUint32(tag, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteUint64(value, binary.LittleEndian)
}

func readOptionalUint64(dec *bin.Decoder) (*uint64, error) {
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	value, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	return &value, nil
}

// EncodeMint packs m into its 82-byte layout.
func EncodeMint(m *Mint) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.MarshalWithEncoder(bin.NewBinEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMint unpacks an 82-byte mint.
func DecodeMint(data []byte) (*Mint, error) {
	if len(data) != MintSize {
		return nil, fmt.Errorf("%w: mint data is %d bytes, want %d", ErrNotTokenAccount, len(data), MintSize)
	}
	m := new(Mint)
	if err := m.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeTokenAccount packs a into its 165-byte layout.
func EncodeTokenAccount(a *TokenAccount) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.MarshalWithEncoder(bin.NewBinEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeTokenAccount unpacks a 165-byte token account.
func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) != TokenAccountSize {
		return nil, fmt.Errorf("%w: token account data is %d bytes, want %d", ErrNotTokenAccount, len(data), TokenAccountSize)
	}
	a := new(TokenAccount)
	if err := a.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return nil, err
	}
	return a, nil
}

// GetMint loads the mint at addr.
func (tx *Tx) GetMint(addr solana.PublicKey) (*Mint, error) {
	acct, err := tx.Get(addr)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(solana.TokenProgramID) {
		return nil, fmt.Errorf("%w: %s is not owned by the token program", ErrNotTokenAccount, addr)
	}
	m, err := DecodeMint(acct.Data)
	if err != nil {
		return nil, err
	}
	if !m.IsInitialized {
		return nil, fmt.Errorf("%w: mint %s is not initialized", ErrNotTokenAccount, addr)
	}
	return m, nil
}

// GetTokenAccount loads the token account at addr.
func (tx *Tx) GetTokenAccount(addr solana.PublicKey) (*TokenAccount, error) {
	acct, err := tx.Get(addr)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(solana.TokenProgramID) {
		return nil, fmt.Errorf("%w: %s is not owned by the token program", ErrNotTokenAccount, addr)
	}
	ta, err := DecodeTokenAccount(acct.Data)
	if err != nil {
		return nil, err
	}
	if ta.State == AccountUninitialized {
		return nil, fmt.Errorf("%w: token account %s is not initialized", ErrNotTokenAccount, addr)
	}
	return ta, nil
}

func (tx *Tx) putMint(addr solana.PublicKey, m *Mint) error {
	data, err := EncodeMint(m)
	if err != nil {
		return err
	}
	tx.Put(&Account{Address: addr, Owner: solana.TokenProgramID, Data: data})
	return nil
}

func (tx *Tx) putTokenAccount(addr solana.PublicKey, a *TokenAccount) error {
	data, err := EncodeTokenAccount(a)
	if err != nil {
		return err
	}
	tx.Put(&Account{Address: addr, Owner: solana.TokenProgramID, Data: data})
	return nil
}

// CreateMint initializes a new mint at addr.
func (tx *Tx) CreateMint(addr, authority solana.PublicKey, decimals uint8) error {
	exists, err := tx.Exists(addr)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	return tx.putMint(addr, &Mint{
		MintAuthority: &authority,
		Decimals:      decimals,
		IsInitialized: true,
	})
}

// CreateTokenAccount initializes a token account for mint at addr, owned by owner.
func (tx *Tx) CreateTokenAccount(addr, mint, owner solana.PublicKey) error {
	exists, err := tx.Exists(addr)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	if _, err := tx.GetMint(mint); err != nil {
		return err
	}
	return tx.putTokenAccount(addr, &TokenAccount{
		Mint:  mint,
		Owner: owner,
		State: AccountInitialized,
	})
}

// MintTo mints amount base units of mint into dest. authority must be the
// mint authority.
func (tx *Tx) MintTo(mint, dest, authority solana.PublicKey, amount uint64) error {
	m, err := tx.GetMint(mint)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil || !m.MintAuthority.Equals(authority) {
		return fmt.Errorf("%w: %s is not the mint authority", ErrAuthorityMismatch, authority)
	}
	ta, err := tx.GetTokenAccount(dest)
	if err != nil {
		return err
	}
	if !ta.Mint.Equals(mint) {
		return ErrMintMismatch
	}
	if m.Supply+amount < m.Supply {
		return ErrSupplyOverflow
	}

	m.Supply += amount
	ta.Amount += amount
	if err := tx.putMint(mint, m); err != nil {
		return err
	}
	return tx.putTokenAccount(dest, ta)
}

// Transfer moves amount base units from src to dst. authority must own src.
func (tx *Tx) Transfer(src, dst, authority solana.PublicKey, amount uint64) error {
	from, err := tx.GetTokenAccount(src)
	if err != nil {
		return err
	}
	to, err := tx.GetTokenAccount(dst)
	if err != nil {
		return err
	}
	if !from.Mint.Equals(to.Mint) {
		return ErrMintMismatch
	}
	if !from.Owner.Equals(authority) {
		return fmt.Errorf("%w: %s does not own %s", ErrAuthorityMismatch, authority, src)
	}
	if from.State == AccountFrozen || to.State == AccountFrozen {
		return fmt.Errorf("%w: account is frozen", ErrNotTokenAccount)
	}
	if from.Amount < amount {
		return fmt.Errorf("%w: balance %d, need %d", ErrInsufficientFunds, from.Amount, amount)
	}
	if src.Equals(dst) {
		return nil
	}

	from.Amount -= amount
	to.Amount += amount
	if err := tx.putTokenAccount(src, from); err != nil {
		return err
	}
	return tx.putTokenAccount(dst, to)
}
