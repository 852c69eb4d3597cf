// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Account is a ledger entry: an address, the program that owns it and its
// raw data.
type Account struct {
	Address solana.PublicKey
	Owner   solana.PublicKey
	Data    []byte
}

// Clone returns a deep copy of a.
func (a *Account) Clone() *Account {
	return &Account{
		Address: a.Address,
		Owner:   a.Owner,
		Data:    bytes.Clone(a.Data),
	}
}

func (a *Account) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(a.Owner[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint32(uint32(len(a.Data)), binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes(a.Data, false)
}

func (a *Account) UnmarshalWithDecoder(dec *bin.Decoder) error {
	owner, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	copy(a.Owner[:], owner)

	n, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return err
	}
	data, err := dec.ReadNBytes(int(n))
	if err != nil {
		return err
	}
	a.Data = data
	return nil
}

func encodeAccount(a *Account) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return nil, fmt.Errorf("failed to encode account %s: %w", a.Address, err)
	}
	return buf.Bytes(), nil
}

func decodeAccount(addr solana.PublicKey, raw []byte) (*Account, error) {
	a := &Account{Address: addr}
	if err := a.UnmarshalWithDecoder(bin.NewBorshDecoder(raw)); err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", addr, err)
	}
	return a, nil
}
