// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package faucet

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// Instruction is one of the faucet program's instructions with its arguments.
type Instruction interface {
	// Name is the instruction's snake_case name, which also seeds its
	// discriminator.
	Name() string
	MarshalWithEncoder(enc *bin.Encoder) error
	UnmarshalWithDecoder(dec *bin.Decoder) error
}

// Initialize is the argument-less entry point of the first program version.
type Initialize struct{}

// InitializeFaucet creates the faucet record and token account for a mint.
type InitializeFaucet struct {
	Decimals    uint64
	MaxWithdraw uint64
}

// Deposit moves N base units from the signer's token account into the pool.
type Deposit struct {
	N uint64
}

// InitializeWithdrawer creates the signer's withdrawer record.
type InitializeWithdrawer struct{}

// Withdraw pays out N whole tokens from the pool.
type Withdraw struct {
	N uint64
}

func (Initialize) Name() string           { return "initialize" }
func (InitializeFaucet) Name() string     { return "initialize_faucet" }
func (Deposit) Name() string              { return "deposit" }
func (InitializeWithdrawer) Name() string { return "initialize_withdrawer" }
func (Withdraw) Name() string             { return "withdraw" }

func (*Initialize) MarshalWithEncoder(*bin.Encoder) error             { return nil }
func (*Initialize) UnmarshalWithDecoder(*bin.Decoder) error           { return nil }
func (*InitializeWithdrawer) MarshalWithEncoder(*bin.Encoder) error   { return nil }
func (*InitializeWithdrawer) UnmarshalWithDecoder(*bin.Decoder) error { return nil }

func (ix *InitializeFaucet) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint64(ix.Decimals, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteUint64(ix.MaxWithdraw, binary.LittleEndian)
}

func (ix *InitializeFaucet) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if ix.Decimals, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	ix.MaxWithdraw, err = dec.ReadUint64(binary.LittleEndian)
	return err
}

func (ix *Deposit) MarshalWithEncoder(enc *bin.Encoder) error {
	return enc.WriteUint64(ix.N, binary.LittleEndian)
}

func (ix *Deposit) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	ix.N, err = dec.ReadUint64(binary.LittleEndian)
	return err
}

func (ix *Withdraw) MarshalWithEncoder(enc *bin.Encoder) error {
	return enc.WriteUint64(ix.N, binary.LittleEndian)
}

func (ix *Withdraw) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	ix.N, err = dec.ReadUint64(binary.LittleEndian)
	return err
}

// registry maps discriminators to constructors.
var registry = map[[DiscriminatorLen]byte]func() Instruction{}

func register(newFn func() Instruction) {
	registry[Discriminator(newFn())] = newFn
}

func init() {
	register(func() Instruction { return &Initialize{} })
	register(func() Instruction { return &InitializeFaucet{} })
	register(func() Instruction { return &Deposit{} })
	register(func() Instruction { return &InitializeWithdrawer{} })
	register(func() Instruction { return &Withdraw{} })
}

// Discriminator returns the 8-byte tag that selects ix.
func Discriminator(ix Instruction) [DiscriminatorLen]byte {
	return discriminator("global", ix.Name())
}

// EncodeInstruction returns the instruction data for ix.
func EncodeInstruction(ix Instruction) ([]byte, error) {
	var buf bytes.Buffer
	d := Discriminator(ix)
	buf.Write(d[:])
	if err := ix.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ix.Name(), err)
	}
	return buf.Bytes(), nil
}

// DecodeInstruction parses instruction data.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) < DiscriminatorLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidInstruction, len(data))
	}
	var d [DiscriminatorLen]byte
	copy(d[:], data)

	newFn, ok := registry[d]
	if !ok {
		return nil, fmt.Errorf("%w: %x", ErrUnknownInstruction, d)
	}
	ix := newFn()
	if err := ix.UnmarshalWithDecoder(bin.NewBorshDecoder(data[DiscriminatorLen:])); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInstruction, ix.Name(), err)
	}
	return ix, nil
}
