// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package ledger holds the accounts the local faucet program runs against.
//
// Accounts are persisted in a Store. All mutation goes through Update, which
// buffers writes in a Tx and applies them only when the callback succeeds, so
// a failing instruction never leaves partial state behind.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrAccountNotFound is returned when an address has no account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when creating an account that already exists.
	ErrAccountExists = errors.New("account already exists")
)

var accountPrefix = []byte("acct/")

func accountKey(addr solana.PublicKey) []byte {
	key := make([]byte, 0, len(accountPrefix)+solana.PublicKeyLength)
	key = append(key, accountPrefix...)
	return append(key, addr[:]...)
}

type batchWriter interface {
	WriteBatch(puts map[string][]byte, deletes []string) error
}

// Ledger serializes access to the accounts in a Store.
type Ledger struct {
	mu    sync.Mutex
	store Store
}

// New returns a Ledger over store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// Account returns the committed account at addr.
func (l *Ledger) Account(addr solana.PublicKey) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(addr)
}

// Accounts returns every committed account owned by owner.
func (l *Ledger) Accounts(owner solana.PublicKey) ([]*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*Account
	err := l.store.Scan(accountPrefix, func(key, value []byte) error {
		addr := solana.PublicKeyFromBytes(key[len(accountPrefix):])
		acct, err := decodeAccount(addr, value)
		if err != nil {
			return err
		}
		if acct.Owner.Equals(owner) {
			out = append(out, acct)
		}
		return nil
	})
	return out, err
}

// Update runs fn against a new transaction and commits its writes if fn
// returns nil. Updates are serialized.
func (l *Ledger) Update(fn func(tx *Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &Tx{ledger: l, writes: make(map[solana.PublicKey]*Account)}
	if err := fn(tx); err != nil {
		return err
	}
	return l.commit(tx)
}

func (l *Ledger) load(addr solana.PublicKey) (*Account, error) {
	raw, err := l.store.Get(accountKey(addr))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	return decodeAccount(addr, raw)
}

func (l *Ledger) commit(tx *Tx) error {
	puts := make(map[string][]byte)
	var deletes []string
	for addr, acct := range tx.writes {
		key := string(accountKey(addr))
		if acct == nil {
			deletes = append(deletes, key)
			continue
		}
		raw, err := encodeAccount(acct)
		if err != nil {
			return err
		}
		puts[key] = raw
	}

	if bw, ok := l.store.(batchWriter); ok {
		return bw.WriteBatch(puts, deletes)
	}
	for k, v := range puts {
		if err := l.store.Put([]byte(k), v); err != nil {
			return err
		}
	}
	for _, k := range deletes {
		if err := l.store.Delete([]byte(k)); err != nil {
			return err
		}
	}
	return nil
}

// Tx is a write buffer over the committed ledger state. Reads see the
// transaction's own writes.
type Tx struct {
	ledger *Ledger
	// nil value marks a deletion
	writes map[solana.PublicKey]*Account
}

// Get returns a copy of the account at addr. Modifying the copy has no
// effect until it is passed to Put.
func (tx *Tx) Get(addr solana.PublicKey) (*Account, error) {
	if acct, ok := tx.writes[addr]; ok {
		if acct == nil {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
		}
		return acct.Clone(), nil
	}
	return tx.ledger.load(addr)
}

// Exists reports whether addr holds an account.
func (tx *Tx) Exists(addr solana.PublicKey) (bool, error) {
	_, err := tx.Get(addr)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Create stores a new account and fails if addr is already in use.
func (tx *Tx) Create(acct *Account) error {
	exists, err := tx.Exists(acct.Address)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, acct.Address)
	}
	tx.Put(acct)
	return nil
}

// Put writes acct, replacing any previous value.
func (tx *Tx) Put(acct *Account) {
	tx.writes[acct.Address] = acct.Clone()
}

// Delete removes the account at addr.
func (tx *Tx) Delete(addr solana.PublicKey) {
	tx.writes[addr] = nil
}
