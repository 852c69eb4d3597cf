// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/aplane-algo/faucet/internal/ledger"
	"github.com/aplane-algo/faucet/internal/util"
)

func printSubmitted(cmd *cobra.Command, what string, sig solana.Signature) {
	p := util.NewPrinter(cmd.OutOrStdout())
	p.Success("%s submitted", what)
	p.Field("Signature", sig)
}

func newInitializeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "initialize",
		Short: "Call the argument-less initialize instruction",
		Args:  cobra.NoArgs,
		RunE: loaded(a, func(cmd *cobra.Command, _ []string) error {
			c, err := a.signingClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sig, err := c.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			printSubmitted(cmd, "initialize", sig)
			return nil
		}),
	}
}

func newInitFaucetCommand(a *app) *cobra.Command {
	var decimals, maxWithdraw uint64
	cmd := &cobra.Command{
		Use:   "init-faucet <mint>",
		Short: "Create the faucet record and token pool of a mint",
		Long: `Create the faucet record and token pool of a mint.

--decimals is the number of base units in one whole token; withdrawals of
n tokens transfer n * decimals base units. --max-withdraw caps n.`,
		Args: cobra.ExactArgs(1),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			mint, err := util.ParsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			c, err := a.signingClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sig, err := c.InitializeFaucet(cmd.Context(), mint, decimals, maxWithdraw)
			if err != nil {
				return err
			}
			addrs, err := c.Addresses(mint)
			if err != nil {
				return err
			}

			printSubmitted(cmd, "initialize_faucet", sig)
			p := util.NewPrinter(cmd.OutOrStdout())
			p.Field("Faucet", addrs.Faucet)
			p.Field("Faucet account", addrs.FaucetAccount)
			return nil
		}),
	}
	cmd.Flags().Uint64Var(&decimals, "decimals", 1_000_000, "Base units per whole token")
	cmd.Flags().Uint64Var(&maxWithdraw, "max-withdraw", 10_000, "Maximum whole tokens per withdrawal")
	return cmd
}

func newDepositCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <mint> <source> <amount>",
		Short: "Move tokens from a signer-owned account into the faucet pool",
		Long: `Move tokens from a signer-owned token account into the faucet pool.

<amount> is in tokens of the mint, e.g. 1.5 for a 6-decimal mint is 1500000
base units.`,
		Args: cobra.ExactArgs(3),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			mint, err := util.ParsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			source, err := util.ParsePublicKey("source", args[1])
			if err != nil {
				return err
			}
			c, err := a.signingClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			decimals, err := a.mintDecimals(cmd.Context(), c, mint)
			if err != nil {
				return err
			}
			amount, err := util.ParseAmount(args[2], decimals)
			if err != nil {
				return err
			}
			sig, err := c.Deposit(cmd.Context(), mint, source, amount)
			if err != nil {
				return err
			}
			printSubmitted(cmd, "deposit", sig)
			return nil
		}),
	}
}

func newInitWithdrawerCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-withdrawer",
		Short: "Create the signer's withdrawer record",
		Args:  cobra.NoArgs,
		RunE: loaded(a, func(cmd *cobra.Command, _ []string) error {
			c, err := a.signingClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sig, err := c.InitializeWithdrawer(cmd.Context())
			if err != nil {
				return err
			}
			printSubmitted(cmd, "initialize_withdrawer", sig)
			return nil
		}),
	}
}

func newWithdrawCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <mint> <destination> <n>",
		Short: "Withdraw n whole tokens from the faucet",
		Args:  cobra.ExactArgs(3),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			mint, err := util.ParsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			dest, err := util.ParsePublicKey("destination", args[1])
			if err != nil {
				return err
			}
			n, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid token count %q: %w", args[2], err)
			}
			c, err := a.signingClient(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sig, err := c.Withdraw(cmd.Context(), mint, dest, n)
			if err != nil {
				return err
			}
			printSubmitted(cmd, "withdraw", sig)
			return nil
		}),
	}
}

func newShowCommand(a *app) *cobra.Command {
	withdrawer := keyFlag{label: "withdrawer owner"}
	cmd := &cobra.Command{
		Use:   "show <mint>",
		Short: "Show the faucet record of a mint",
		Args:  cobra.ExactArgs(1),
		RunE: loaded(a, func(cmd *cobra.Command, args []string) error {
			mint, err := util.ParsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			c, err := a.readClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			f, err := c.Faucet(ctx, mint)
			if err != nil {
				return err
			}
			addrs, err := c.Addresses(mint)
			if err != nil {
				return err
			}

			p := util.NewPrinter(cmd.OutOrStdout())
			p.Title("Faucet")
			p.Field("Address", addrs.Faucet)
			p.Field("Mint", f.Mint)
			p.Field("Owner", f.Owner)
			p.Field("Bump", f.Bump)
			p.Field("Decimals", f.Decimals)
			p.Field("Max withdraw", f.MaxWithdraw)

			pool, err := c.TokenBalance(ctx, addrs.FaucetAccount)
			if err != nil {
				return err
			}
			if decimals, err := a.mintDecimals(ctx, c, mint); err == nil {
				p.Field("Pool", util.FormatAmount(pool, decimals))
			} else {
				p.Field("Pool", pool)
			}

			if !withdrawer.set {
				return nil
			}
			w, err := c.Withdrawer(ctx, withdrawer.key)
			if errors.Is(err, ledger.ErrAccountNotFound) {
				p.Field("Withdrawer", "not initialized")
				return nil
			}
			if err != nil {
				return err
			}
			p.Title("Withdrawer")
			p.Field("Owner", w.Owner)
			if w.LastWithdraw == 0 {
				p.Field("Last withdraw", "never")
			} else {
				p.Field("Last withdraw", time.Unix(w.LastWithdraw, 0).UTC().Format(time.RFC3339))
			}
			return nil
		}),
	}
	cmd.Flags().Var(&withdrawer, "withdrawer", "Also show the withdrawer record of this owner")
	return cmd
}
