// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/aplane-algo/faucet/internal/config"
	"github.com/aplane-algo/faucet/internal/util"
)

const configDebounce = 500 * time.Millisecond

// errExit ends the shell loop.
var errExit = errors.New("exit")

// runLine executes one shell line against a fresh command tree that shares
// the shell's app state.
func runLine(ctx context.Context, a *app, line string, out, errOut io.Writer) error {
	args, err := util.SplitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "quit", "exit":
		return errExit
	case "shell":
		return fmt.Errorf("already in the shell")
	}

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell; config.yaml is reloaded when it changes",
		Args:  cobra.NoArgs,
		RunE: loaded(a, func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			err := util.WatchFile(ctx, config.Path(a.dataDir), configDebounce, func() {
				if err := a.reload(); err != nil {
					util.Warn("config reload failed", "error", err)
					return
				}
				util.Info("config reloaded", "backend", a.currentConfig().Backend)
			})
			if err != nil {
				util.Warn("config watcher disabled", "error", err)
			}

			fmt.Fprintln(out, "faucetctl shell")
			fmt.Fprintln(out, "Type 'help' for available commands or 'quit' to exit")

			rl, err := readline.NewEx(&readline.Config{
				Prompt:            "\033[32mfaucet>\033[0m ",
				HistoryFile:       filepath.Join(a.dataDir, ".faucetctl_history"),
				HistoryLimit:      1000,
				AutoComplete:      newCompleter(newRootCommand(a)),
				InterruptPrompt:   "^C",
				EOFPrompt:         "exit",
				HistorySearchFold: true,
			})
			if err != nil {
				fmt.Fprintf(out, "Failed to create readline instance, falling back to basic input: %v\n", err)
				return basicShell(ctx, a, cmd.InOrStdin(), out, cmd.ErrOrStderr())
			}
			defer func() { _ = rl.Close() }()

			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) {
						if len(line) == 0 {
							fmt.Fprintln(out, "Use 'quit' or 'exit' to exit")
						}
						continue
					}
					if errors.Is(err, io.EOF) {
						fmt.Fprintln(out, "\nGoodbye!")
						return nil
					}
					return err
				}

				err = runLine(ctx, a, line, rl.Stdout(), rl.Stderr())
				if errors.Is(err, errExit) {
					return nil
				}
				if err != nil {
					util.NewPrinter(rl.Stdout()).Error(err)
				}
			}
		}),
	}
}

func basicShell(ctx context.Context, a *app, in io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "faucet> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		err := runLine(ctx, a, scanner.Text(), out, errOut)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			util.NewPrinter(out).Error(err)
		}
	}
}

// newCompleter offers the command tree's names for tab completion.
func newCompleter(root *cobra.Command) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, c := range root.Commands() {
		if c.Hidden || c.Name() == "shell" {
			continue
		}
		var children []readline.PrefixCompleterInterface
		for _, sub := range c.Commands() {
			children = append(children, readline.PcItem(sub.Name()))
		}
		items = append(items, readline.PcItem(c.Name(), children...))
	}
	items = append(items, readline.PcItem("help"), readline.PcItem("quit"), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}
