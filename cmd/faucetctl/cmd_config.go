// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aplane-algo/faucet/internal/config"
	"github.com/aplane-algo/faucet/internal/util"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create config.yaml",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: loaded(a, func(cmd *cobra.Command, _ []string) error {
			cfg := a.currentConfig()
			fmt.Fprint(cmd.OutOrStdout(), cfg.Display(a.dataDir))
			return nil
		}),
	}

	var backend, rpcURL string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml into the data directory",
		Args:  cobra.NoArgs,
		RunE: loaded(a, func(cmd *cobra.Command, _ []string) error {
			path := config.Path(a.dataDir)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			cfg := config.DefaultConfig()
			if backend != "" {
				cfg.Backend = backend
			}
			if rpcURL != "" {
				cfg.RPCURL = rpcURL
			}
			if err := config.Write(a.dataDir, cfg); err != nil {
				return err
			}
			if err := a.reload(); err != nil {
				return err
			}
			util.NewPrinter(cmd.OutOrStdout()).Success("wrote %s", path)
			return nil
		}),
	}
	initCmd.Flags().StringVar(&backend, "backend", "", "Backend: local or rpc")
	initCmd.Flags().StringVar(&rpcURL, "rpc-url", "", "JSON-RPC endpoint")

	cmd.AddCommand(show, initCmd)
	return cmd
}
