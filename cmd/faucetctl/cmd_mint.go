// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/aplane-algo/faucet/internal/ledger"
	"github.com/aplane-algo/faucet/internal/util"
)

// addressFlag parses an optional --address value, generating a fresh
// address when it is empty.
func addressFlag(value string) (solana.PublicKey, error) {
	if value != "" {
		return util.ParsePublicKey("address", value)
	}
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return key.PublicKey(), nil
}

func newMintCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Set up mints and token accounts on the local ledger",
	}
	cmd.AddCommand(
		newMintCreateCommand(a),
		newMintAccountCommand(a),
		newMintToCommand(a),
		newMintBalanceCommand(a),
	)
	return cmd
}

func newMintCreateCommand(a *app) *cobra.Command {
	var decimals uint8
	var address string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a mint whose authority is the signer",
		Args:  cobra.NoArgs,
		RunE: loaded(a, func(cmd *cobra.Command, _ []string) error {
			l, err := a.localLedger()
			if err != nil {
				return err
			}
			key, err := a.signer(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			mint, err := addressFlag(address)
			if err != nil {
				return err
			}
			err = l.Update(func(tx *ledger.Tx) error {
				return tx.CreateMint(mint, key.PublicKey(), decimals)
			})
			if err != nil {
				return err
			}

			p := util.NewPrinter(cmd.OutOrStdout())
			p.Success("mint created")
			p.Field("Mint", mint)
			p.Field("Authority", key.PublicKey())
			p.Field("Decimals", decimals)
			return nil
		}),
	}
	cmd.Flags().Uint8Var(&decimals, "decimals", 6, "Mint decimals")
	cmd.Flags().StringVar(&address, "address", "", "Mint address (default random)")
	return cmd
}

func newMintAccountCommand(a *app) *cobra.Command {
	var owner, address string
	cmd := &cobra.Command{
		Use:   "account <mint>",
		Short: "Create a token account for a mint",
		Args:  cobra.ExactArgs(1),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			mint, err := util.ParsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			l, err := a.localLedger()
			if err != nil {
				return err
			}

			var ownerKey solana.PublicKey
			if owner != "" {
				if ownerKey, err = util.ParsePublicKey("owner", owner); err != nil {
					return err
				}
			} else {
				key, err := a.signer(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				ownerKey = key.PublicKey()
			}
			addr, err := addressFlag(address)
			if err != nil {
				return err
			}

			err = l.Update(func(tx *ledger.Tx) error {
				return tx.CreateTokenAccount(addr, mint, ownerKey)
			})
			if err != nil {
				return err
			}

			p := util.NewPrinter(cmd.OutOrStdout())
			p.Success("token account created")
			p.Field("Account", addr)
			p.Field("Mint", mint)
			p.Field("Owner", ownerKey)
			return nil
		}),
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Account owner (default signer)")
	cmd.Flags().StringVar(&address, "address", "", "Account address (default random)")
	return cmd
}

func newMintToCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "to <mint> <account> <amount>",
		Aliases: []string{"mint-to"},
		Short:   "Mint tokens into an account (signer must be the mint authority)",
		Args:    cobra.ExactArgs(3),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			mint, err := util.ParsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			dest, err := util.ParsePublicKey("account", args[1])
			if err != nil {
				return err
			}
			l, err := a.localLedger()
			if err != nil {
				return err
			}
			key, err := a.signer(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var amount uint64
			err = l.Update(func(tx *ledger.Tx) error {
				m, err := tx.GetMint(mint)
				if err != nil {
					return err
				}
				if amount, err = util.ParseAmount(args[2], m.Decimals); err != nil {
					return err
				}
				return tx.MintTo(mint, dest, key.PublicKey(), amount)
			})
			if err != nil {
				return err
			}

			util.NewPrinter(cmd.OutOrStdout()).Success("minted %d base units to %s", amount, dest)
			return nil
		}),
	}
}

func newMintBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show the balance of a token account",
		Args:  cobra.ExactArgs(1),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			addr, err := util.ParsePublicKey("account", args[0])
			if err != nil {
				return err
			}
			c, err := a.readClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			acct, err := c.Submitter.Account(ctx, addr)
			if err != nil {
				return err
			}
			ta, err := ledger.DecodeTokenAccount(acct.Data)
			if err != nil {
				return err
			}

			p := util.NewPrinter(cmd.OutOrStdout())
			p.Field("Account", addr)
			p.Field("Mint", ta.Mint)
			p.Field("Owner", ta.Owner)
			if decimals, err := a.mintDecimals(ctx, c, ta.Mint); err == nil {
				p.Field("Balance", util.FormatAmount(ta.Amount, decimals))
			} else {
				p.Field("Balance", ta.Amount)
			}
			return nil
		}),
	}
}
