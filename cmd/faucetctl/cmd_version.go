// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aplane-algo/faucet/internal/version"
)

func newVersionCommand() *cobra.Command {
	var versionOnly bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if versionOnly {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "faucetctl %s\n", version.String())
		},
	}
	cmd.Flags().BoolVar(&versionOnly, "version-only", false, "Only print out the version number")
	return cmd
}
