// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package faucet

import "errors"

var (
	ErrUnknownInstruction  = errors.New("unknown instruction")
	ErrInvalidInstruction  = errors.New("invalid instruction data")
	ErrNotEnoughAccounts   = errors.New("not enough account keys given to the instruction")
	ErrMissingSigner       = errors.New("missing required signature")
	ErrAccountNotWritable  = errors.New("account is not writable")
	ErrInvalidProgramID    = errors.New("unexpected program or sysvar account")
	ErrInvalidAddress      = errors.New("account does not match its derived address")
	ErrAccountInUse        = errors.New("account already in use")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidAccountData  = errors.New("account data does not match the expected type")
	ErrAccountOwner        = errors.New("account is not owned by the faucet program")
	ErrMintMismatch        = errors.New("the token mint you are trying to withdraw does not match the faucet mint")
	ErrOwnerMismatch       = errors.New("you have provided a wrong withdrawer account")
	ErrRateLimited         = errors.New("your transaction has been rate limited, please try again later")
	ErrMaxWithdrawExceeded = errors.New("the maximal amount you can withdraw is exceeded")
	ErrOverflow            = errors.New("withdraw amount overflows")
)
