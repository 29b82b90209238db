package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/internal/config"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fsnt",
		Short: "fsnt composes multi-tape weighted finite-state transducers",
		Long: `fsnt reads, writes, inspects and composes transducers with any number of named tapes.

Files ending in .json, .yaml or .yml are schema documents; anything else is AT&T text.
A path of "-" means stdin or stdout.`,
		SilenceUsage: true,
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default ./fsnt.yaml when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("store", "", "Store kind: memory, file or redis (overrides config)")
	rootCmd.PersistentFlags().String("store-dir", "", "Directory of the file store (overrides config)")

	rootCmd.AddCommand(
		newComposeCmd(),
		newExpandCmd(),
		newFst2TxtCmd(),
		newTxt2FstCmd(),
		newReverseCmd(),
		newStripCmd(),
		newGraphCmd(),
		newInfoCmd(),
		newStoreCmd(),
		newServeCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the per-invocation environment shared by the commands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func setup(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if kind, _ := cmd.Flags().GetString("store"); kind != "" {
		cfg.Store.Kind = kind
	}
	if dir, _ := cmd.Flags().GetString("store-dir"); dir != "" {
		cfg.Store.Dir = dir
	}

	logger, err := cli.CreateLogger(debug, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

// context bounds long operations by the configured timeout, if any.
func (a *app) context(parent context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Compose.Timeout > 0 {
		return context.WithTimeout(parent, a.cfg.Compose.Timeout)
	}
	return context.WithCancel(parent)
}

// ioArgs returns the input and output paths of a filter-style command.
func ioArgs(args []string) (string, string) {
	in, out := cli.Stdio, cli.Stdio
	if len(args) > 0 {
		in = args[0]
	}
	if len(args) > 1 {
		out = args[1]
	}
	return in, out
}

// openOutput opens path for writing, or returns stdout for "-".
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == cli.Stdio {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create %s", path)
	}
	return f, f.Close, nil
}
