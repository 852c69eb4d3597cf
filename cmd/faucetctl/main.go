// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// faucetctl drives the token faucet program: it derives the faucet's
// program-owned addresses, builds and submits faucet instructions, and sets
// up mints on the local ledger.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aplane-algo/faucet/internal/util"
	"github.com/aplane-algo/faucet/internal/version"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "faucetctl",
		Short:         "Token faucet client",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.dataDirFlag, "data-dir", "d", a.dataDirFlag, "Data directory (default $FAUCET_DATA or ~/.faucet)")

	root.AddCommand(
		newDeriveCommand(a),
		newAddressesCommand(a),
		newInitializeCommand(a),
		newInitFaucetCommand(a),
		newDepositCommand(a),
		newInitWithdrawerCommand(a),
		newWithdrawCommand(a),
		newShowCommand(a),
		newMintCommand(a),
		newKeygenCommand(a),
		newConfigCommand(a),
		newShellCommand(a),
		newVersionCommand(),
	)
	return root
}

// loaded wraps a RunE so it only runs after the configuration is loaded.
func loaded(a *app, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.load(); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

func main() {
	util.InitLogger()

	a := newApp()
	root := newRootCommand(a)
	err := root.Execute()
	a.close()
	if err != nil {
		util.NewPrinter(os.Stderr).Error(err)
		os.Exit(1)
	}
}
