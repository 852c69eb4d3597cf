// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aplane-algo/faucet/internal/client"
	"github.com/aplane-algo/faucet/internal/faucet"
	"github.com/aplane-algo/faucet/internal/pda"
	"github.com/aplane-algo/faucet/internal/util"
)

func newDeriveCommand(a *app) *cobra.Command {
	var flags programFlags
	cmd := &cobra.Command{
		Use:   "derive <seed>...",
		Short: "Derive a program address and its canonical bump",
		Long: `Derive a program address from seeds.

Seeds are text by default. Prefixes select other encodings:
  str:<text>  hex:<digits>  b58:<text>  pubkey:<key>  u8:<n>  u64:<n>`,
		Example: "  faucetctl derive mint pubkey:4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU",
		Args:    cobra.MinimumNArgs(1),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			programID := flags.resolve(a)
			seeds, err := util.ParseSeeds(args)
			if err != nil {
				return err
			}
			addr, bump, err := pda.Find(seeds, programID)
			if err != nil {
				return err
			}

			p := util.NewPrinter(cmd.OutOrStdout())
			p.Field("Program", programID)
			p.Field("Address", addr)
			p.Field("Bump", bump)
			return nil
		}),
	}
	flags.SetFlags(cmd.Flags())
	return cmd
}

func newAddressesCommand(a *app) *cobra.Command {
	var flags programFlags
	owner := keyFlag{label: "owner"}
	cmd := &cobra.Command{
		Use:   "addresses <mint>",
		Short: "Show the faucet addresses of a mint",
		Args:  cobra.ExactArgs(1),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			programID := flags.resolve(a)
			mint, err := util.ParsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			addrs, err := client.DeriveAddresses(programID, mint)
			if err != nil {
				return err
			}

			p := util.NewPrinter(cmd.OutOrStdout())
			p.Title("Faucet addresses")
			p.Field("Program", programID)
			p.Field("Mint", mint)
			p.Field("Faucet", fmt.Sprintf("%s (bump %d)", addrs.Faucet, addrs.FaucetBump))
			p.Field("Faucet account", fmt.Sprintf("%s (bump %d)", addrs.FaucetAccount, addrs.FaucetAccountBump))

			if owner.set {
				w, bump, err := faucet.WithdrawerAddress(programID, owner.key)
				if err != nil {
					return err
				}
				p.Field("Withdrawer", fmt.Sprintf("%s (bump %d)", w, bump))
			}
			return nil
		}),
	}
	flags.SetFlags(cmd.Flags())
	cmd.Flags().Var(&owner, "owner", "Also derive the withdrawer record of this owner")
	return cmd
}
