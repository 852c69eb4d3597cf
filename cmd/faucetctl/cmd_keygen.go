// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aplane-algo/faucet/internal/crypto"
	"github.com/aplane-algo/faucet/internal/fsutil"
	"github.com/aplane-algo/faucet/internal/signer"
	"github.com/aplane-algo/faucet/internal/util"
)

// readNewPassphrase asks twice on the terminal.
func readNewPassphrase(cmd *cobra.Command, in *os.File) ([]byte, error) {
	fd := int(in.Fd()) // #nosec G115 - file descriptors are small integers
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("--encrypt needs a terminal to read the passphrase")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Passphrase: ")
	pass1, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Confirm:    ")
	pass2, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		crypto.ZeroBytes(pass1)
		return nil, fmt.Errorf("reading confirmation: %w", err)
	}
	defer crypto.ZeroBytes(pass2)

	if string(pass1) != string(pass2) {
		crypto.ZeroBytes(pass1)
		return nil, fmt.Errorf("passphrases do not match")
	}
	if len(pass1) == 0 {
		return nil, fmt.Errorf("passphrase must not be empty")
	}
	return pass1, nil
}

func newKeygenCommand(a *app) *cobra.Command {
	var encrypt bool
	var outfile string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the signer keypair",
		Args:  cobra.NoArgs,
		RunE: loaded(a, func(cmd *cobra.Command, _ []string) error {
			path := outfile
			if path == "" {
				path = a.currentConfig().Keypair
			}
			if err := fsutil.MkdirAll(filepath.Dir(path)); err != nil {
				return fmt.Errorf("failed to create key directory: %w", err)
			}

			var passphrase []byte
			if encrypt {
				var err error
				if passphrase, err = readNewPassphrase(cmd, a.stdin); err != nil {
					return err
				}
				defer crypto.ZeroBytes(passphrase)
			}

			key, err := signer.Generate(path, passphrase)
			if err != nil {
				return err
			}

			p := util.NewPrinter(cmd.OutOrStdout())
			p.Success("keypair written")
			p.Field("File", path)
			p.Field("Public key", key.PublicKey())
			p.Field("Encrypted", encrypt)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "Seal the keypair under a passphrase")
	cmd.Flags().StringVarP(&outfile, "outfile", "o", "", "Keypair path (default from config)")
	return cmd
}
