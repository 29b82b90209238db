package main

import (
	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/spf13/cobra"
)

// newFilterCmd builds a command that reads a transducer, applies fn and writes the result.
func newFilterCmd(use, short string, fn func(*fst.Transducer) *fst.Transducer) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [INPUT [OUTPUT]]",
		Short: short,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := ioArgs(args)
			t, err := cli.ReadTransducer(in, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return cli.WriteTransducer(out, fn(t), cmd.OutOrStdout(), att.DefaultOptions)
		},
	}
}

func newReverseCmd() *cobra.Command {
	return newFilterCmd("reverse", "Reverse the direction of every transition", ops.Reverse)
}

func newStripCmd() *cobra.Command {
	return newFilterCmd("strip", "Remove states that do not lie on an accepting path", ops.Strip)
}
