// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package config loads faucetctl settings from config.yaml in the data
// directory. Every call site receives an explicit Config; nothing is read
// from ambient provider state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"

	"github.com/aplane-algo/faucet/internal/faucet"
	"github.com/aplane-algo/faucet/internal/fsutil"
)

// Backends accepted in the backend field.
const (
	BackendLocal = "local"
	BackendRPC   = "rpc"
)

// FileName is the config file name inside the data directory.
const FileName = "config.yaml"

// DataDirEnv overrides the default data directory.
const DataDirEnv = "FAUCET_DATA"

// Config holds faucetctl configuration settings
type Config struct {
	Backend          string        `yaml:"backend" description:"Where transactions go: local (in-process program) or rpc" default:"local"`
	RPCURL           string        `yaml:"rpc_url" description:"JSON-RPC endpoint used by the rpc backend" default:"http://127.0.0.1:8899"`
	ProgramID        string        `yaml:"program_id" description:"Faucet program id (base58)" default:"EtTeTRSJSRBBgm5nrmodadBpToGFrwWjo2syiVAjvjuT"`
	Keypair          string        `yaml:"keypair" description:"Signer keypair file (relative to data dir)" default:"id.json"`
	Store            string        `yaml:"store" description:"Badger directory of the local ledger (relative to data dir)" default:"ledger"`
	WithdrawCooldown time.Duration `yaml:"withdraw_cooldown" description:"Minimum time between withdrawals of one withdrawer (local backend)" default:"60s"`

	// Headless unlock of a sealed keypair. argv[0] is resolved against the data dir.
	PassphraseCommand []string          `yaml:"passphrase_command_argv,omitempty" description:"Helper printing the keypair passphrase, run as argv[0] read <keypair> argv[1:]..."`
	PassphraseEnv     map[string]string `yaml:"passphrase_command_env,omitempty" description:"Environment of the passphrase helper (the process env is not inherited)"`

	programKey solana.PublicKey
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:          BackendLocal,
		RPCURL:           "http://127.0.0.1:8899",
		ProgramID:        faucet.DefaultProgramID.String(),
		Keypair:          "id.json",
		Store:            "ledger",
		WithdrawCooldown: faucet.DefaultCooldown,
		programKey:       faucet.DefaultProgramID,
	}
}

// DataDir returns the data directory.
// Resolution order: -d flag > FAUCET_DATA env var > ~/.faucet
func DataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envDir := os.Getenv(DataDirEnv); envDir != "" {
		return envDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".faucet")
}

// Path returns the config file path in dataDir, or "" if dataDir is empty.
func Path(dataDir string) string {
	if dataDir == "" {
		return ""
	}
	return filepath.Join(dataDir, FileName)
}

// ResolvePath joins a relative path onto baseDir. Absolute paths are kept.
func ResolvePath(path, baseDir string) string {
	if path == "" || baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Load reads config.yaml from dataDir. A missing file yields the defaults.
// Relative keypair and store paths are resolved against dataDir.
func Load(dataDir string) (Config, error) {
	cfg, err := LoadFromPath(Path(dataDir))
	if err != nil {
		return cfg, err
	}
	cfg.Keypair = ResolvePath(cfg.Keypair, dataDir)
	cfg.Store = ResolvePath(cfg.Store, dataDir)
	if len(cfg.PassphraseCommand) > 0 {
		cfg.PassphraseCommand[0] = ResolvePath(cfg.PassphraseCommand[0], dataDir)
	}
	return cfg, nil
}

// LoadFromPath loads and validates the config at path, overlaying it on the
// defaults. An empty path or a missing file yields the defaults.
func LoadFromPath(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendLocal, BackendRPC:
	default:
		return fmt.Errorf("invalid backend '%s' in config (must be %s or %s)", c.Backend, BackendLocal, BackendRPC)
	}

	if c.Backend == BackendRPC && c.RPCURL == "" {
		return fmt.Errorf("rpc_url is required when backend is %s", BackendRPC)
	}
	if c.RPCURL != "" && !strings.HasPrefix(c.RPCURL, "http://") && !strings.HasPrefix(c.RPCURL, "https://") {
		return fmt.Errorf("invalid rpc_url '%s' (must start with http:// or https://)", c.RPCURL)
	}

	key, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return fmt.Errorf("invalid program_id '%s': %w", c.ProgramID, err)
	}
	c.programKey = key

	if c.Keypair == "" {
		return fmt.Errorf("keypair must not be empty")
	}
	if c.Backend == BackendLocal && c.Store == "" {
		return fmt.Errorf("store is required when backend is %s", BackendLocal)
	}
	if c.WithdrawCooldown < 0 {
		return fmt.Errorf("withdraw_cooldown must not be negative")
	}
	if len(c.PassphraseCommand) > 0 && c.PassphraseCommand[0] == "" {
		return fmt.Errorf("passphrase_command_argv[0] must not be empty")
	}
	return nil
}

// ProgramKey returns the validated program id.
func (c *Config) ProgramKey() solana.PublicKey {
	return c.programKey
}

// Write stores cfg as config.yaml in dataDir, creating the directory.
func Write(dataDir string, cfg Config) error {
	if dataDir == "" {
		return fmt.Errorf("no data directory")
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := fsutil.MkdirAll(dataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return fsutil.WriteFile(Path(dataDir), data)
}

// Display writes a human-readable summary of cfg.
func (c *Config) Display(dataDir string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Data dir:    %s\n", dataDir)
	fmt.Fprintf(&b, "Config file: %s\n", Path(dataDir))
	fmt.Fprintf(&b, "Backend:     %s\n", c.Backend)
	if c.Backend == BackendRPC {
		fmt.Fprintf(&b, "RPC URL:     %s\n", c.RPCURL)
	} else {
		fmt.Fprintf(&b, "Store:       %s\n", c.Store)
		fmt.Fprintf(&b, "Cooldown:    %s\n", c.WithdrawCooldown)
	}
	fmt.Fprintf(&b, "Program:     %s\n", c.ProgramID)
	fmt.Fprintf(&b, "Keypair:     %s\n", c.Keypair)
	if len(c.PassphraseCommand) > 0 {
		fmt.Fprintf(&b, "Passphrase:  %s\n", strings.Join(c.PassphraseCommand, " "))
	}
	return b.String()
}
