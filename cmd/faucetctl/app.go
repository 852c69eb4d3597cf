// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/aplane-algo/faucet/internal/client"
	"github.com/aplane-algo/faucet/internal/config"
	"github.com/aplane-algo/faucet/internal/faucet"
	"github.com/aplane-algo/faucet/internal/ledger"
	"github.com/aplane-algo/faucet/internal/security"
	"github.com/aplane-algo/faucet/internal/signer"
	"github.com/aplane-algo/faucet/internal/util"
)

// errLocalOnly is returned by ledger setup commands under the rpc backend.
var errLocalOnly = errors.New("command requires the local backend")

// app is the state shared by every command of one process: the resolved
// configuration and, lazily, the signer, local ledger and client.
type app struct {
	dataDirFlag string
	stdin       *os.File
	prompt      signer.PassphraseFunc

	mu      sync.Mutex
	loaded  bool
	dataDir string
	cfg     config.Config
	key     solana.PrivateKey
	ledger  *ledger.Ledger
	client  *client.Client
}

func newApp() *app {
	return &app{stdin: os.Stdin}
}

// load resolves the data directory and reads config.yaml once.
func (a *app) load() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loaded {
		return nil
	}

	a.dataDir = config.DataDir(a.dataDirFlag)
	if a.dataDir == "" {
		return fmt.Errorf("could not determine data directory (use -d or set %s)", config.DataDirEnv)
	}
	cfg, err := config.Load(a.dataDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.loaded = true
	util.Debug("config loaded", "data_dir", a.dataDir, "backend", cfg.Backend)
	return nil
}

// reload rereads config.yaml. Open resources are dropped and recreated on
// next use.
func (a *app) reload() error {
	cfg, err := config.Load(a.dataDir)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = cfg
	a.key = nil
	a.client = nil
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			util.Warn("failed to close ledger", "error", err)
		}
		a.ledger = nil
	}
	return nil
}

func (a *app) currentConfig() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

func (a *app) programID() solana.PublicKey {
	cfg := a.currentConfig()
	return cfg.ProgramKey()
}

func (a *app) passphrasePrompt(out io.Writer) signer.PassphraseFunc {
	if a.prompt != nil {
		return a.prompt
	}
	if len(a.cfg.PassphraseCommand) > 0 {
		return signer.Command{Argv: a.cfg.PassphraseCommand, Env: a.cfg.PassphraseEnv}.Prompt()
	}
	return signer.TerminalPrompt(a.stdin, out)
}

// signer loads the configured keypair.
func (a *app) signer(out io.Writer) (solana.PrivateKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.key != nil {
		return a.key, nil
	}
	if err := security.DisableCoreDumps(); err != nil {
		util.Warn("keypair may appear in core dumps", "error", err)
	}
	key, err := signer.Load(a.cfg.Keypair, a.passphrasePrompt(out))
	if err != nil {
		return nil, fmt.Errorf("failed to load signer (run 'faucetctl keygen' to create one): %w", err)
	}
	a.key = key
	return key, nil
}

func (a *app) openLedger() (*ledger.Ledger, error) {
	if a.ledger != nil {
		return a.ledger, nil
	}
	if a.cfg.Backend != config.BackendLocal {
		return nil, errLocalOnly
	}
	store, err := ledger.OpenBadger(a.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	a.ledger = ledger.New(store)
	return a.ledger, nil
}

// localLedger returns the ledger of the local backend.
func (a *app) localLedger() (*ledger.Ledger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openLedger()
}

// submitter builds the submitter for the configured backend.
func (a *app) submitter() (client.Submitter, error) {
	switch a.cfg.Backend {
	case config.BackendRPC:
		return client.NewRPCSubmitter(a.cfg.RPCURL), nil
	case config.BackendLocal:
		l, err := a.openLedger()
		if err != nil {
			return nil, err
		}
		program := faucet.NewProgram(a.cfg.ProgramKey())
		program.Cooldown = a.cfg.WithdrawCooldown
		return client.NewLocalSubmitter(l, program), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", a.cfg.Backend)
	}
}

// readClient returns a client that can read accounts but has no signer.
func (a *app) readClient() (*client.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}
	sub, err := a.submitter()
	if err != nil {
		return nil, err
	}
	return client.New(a.cfg.ProgramKey(), a.key, sub), nil
}

// signingClient returns a client with the configured signer.
func (a *app) signingClient(out io.Writer) (*client.Client, error) {
	key, err := a.signer(out)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}
	sub, err := a.submitter()
	if err != nil {
		return nil, err
	}
	a.client = client.New(a.cfg.ProgramKey(), key, sub)
	return a.client, nil
}

// mintDecimals reads the decimals field of a mint account.
func (a *app) mintDecimals(ctx context.Context, c *client.Client, mint solana.PublicKey) (uint8, error) {
	acct, err := c.Submitter.Account(ctx, mint)
	if err != nil {
		return 0, err
	}
	m, err := ledger.DecodeMint(acct.Data)
	if err != nil {
		return 0, err
	}
	return m.Decimals, nil
}

func (a *app) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			util.Warn("failed to close ledger", "error", err)
		}
		a.ledger = nil
	}
	a.client = nil
}
