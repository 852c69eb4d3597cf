// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package faucet

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// DiscriminatorLen is the length of the type tag that prefixes account and
// instruction data.
const DiscriminatorLen = 8

// Allocated account sizes, discriminator included. The faucet record is
// allocated with the in-memory size of the on-chain struct, which is padded,
// so its data is longer than the packed fields.
const (
	FaucetSpace     = 96
	WithdrawerSpace = 48
)

func discriminator(namespace, name string) [DiscriminatorLen]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d [DiscriminatorLen]byte
	copy(d[:], sum[:DiscriminatorLen])
	return d
}

var (
	faucetDiscriminator     = discriminator("account", "Faucet")
	withdrawerDiscriminator = discriminator("account", "Withdrawer")
)

// Faucet is the per-mint faucet record.
type Faucet struct {
	Bump        uint8
	Mint        solana.PublicKey
	Owner       solana.PublicKey
	MaxWithdraw uint64
	// Decimals is the number of base units in one whole token.
	Decimals uint64
}

// Withdrawer tracks the last withdrawal of one signer.
type Withdrawer struct {
	Owner        solana.PublicKey
	LastWithdraw int64
}

func (f *Faucet) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(faucetDiscriminator[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint8(f.Bump); err != nil {
		return err
	}
	if err := enc.WriteBytes(f.Mint[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(f.Owner[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint64(f.MaxWithdraw, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteUint64(f.Decimals, binary.LittleEndian)
}

func (f *Faucet) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err := readDiscriminator(dec, faucetDiscriminator, "Faucet"); err != nil {
		return err
	}
	if f.Bump, err = dec.ReadUint8(); err != nil {
		return err
	}
	if f.Mint, err = readKey(dec); err != nil {
		return err
	}
	if f.Owner, err = readKey(dec); err != nil {
		return err
	}
	if f.MaxWithdraw, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	f.Decimals, err = dec.ReadUint64(binary.LittleEndian)
	return err
}

func (w *Withdrawer) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(withdrawerDiscriminator[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(w.Owner[:], false); err != nil {
		return err
	}
	return enc.WriteInt64(w.LastWithdraw, binary.LittleEndian)
}

func (w *Withdrawer) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err := readDiscriminator(dec, withdrawerDiscriminator, "Withdrawer"); err != nil {
		return err
	}
	if w.Owner, err = readKey(dec); err != nil {
		return err
	}
	w.LastWithdraw, err = dec.ReadInt64(binary.LittleEndian)
	return err
}

func readDiscriminator(dec *bin.Decoder, want [DiscriminatorLen]byte, name string) error {
	got, err := dec.ReadNBytes(DiscriminatorLen)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAccountData, err)
	}
	if !bytes.Equal(got, want[:]) {
		return fmt.Errorf("%w: not a %s account", ErrInvalidAccountData, name)
	}
	return nil
}

func readKey(dec *bin.Decoder) (solana.PublicKey, error) {
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(raw), nil
}

type marshaler interface {
	MarshalWithEncoder(enc *bin.Encoder) error
}

// encodeAccount packs v and pads it with zeros to space bytes.
func encodeAccount(v marshaler, space int) ([]byte, error) {
	var buf bytes.Buffer
	if err := v.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return nil, err
	}
	if buf.Len() < space {
		buf.Write(make([]byte, space-buf.Len()))
	}
	return buf.Bytes(), nil
}

// EncodeFaucet returns the account data for f.
func EncodeFaucet(f *Faucet) ([]byte, error) {
	return encodeAccount(f, FaucetSpace)
}

// DecodeFaucet parses faucet record data. Trailing padding is ignored.
func DecodeFaucet(data []byte) (*Faucet, error) {
	f := new(Faucet)
	if err := f.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode faucet: %w", err)
	}
	return f, nil
}

// EncodeWithdrawer returns the account data for w.
func EncodeWithdrawer(w *Withdrawer) ([]byte, error) {
	return encodeAccount(w, WithdrawerSpace)
}

// DecodeWithdrawer parses withdrawer record data.
func DecodeWithdrawer(data []byte) (*Withdrawer, error) {
	w := new(Withdrawer)
	if err := w.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode withdrawer: %w", err)
	}
	return w, nil
}
