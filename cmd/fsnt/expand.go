package main

import (
	"bufio"
	"strconv"

	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/spf13/cobra"
)

func newExpandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand [INPUT [OUTPUT]]",
		Short: "List the paths a transducer accepts",
		Long: `Prints one accepted path per line, tapes joined by ':'.
Each cycle is followed at most --cycles times.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			cycles, _ := cmd.Flags().GetInt("cycles")
			weights, _ := cmd.Flags().GetBool("weights")
			in, out := ioArgs(args)

			t, err := cli.ReadTransducer(in, cmd.InOrStdin())
			if err != nil {
				return err
			}
			w, closeOut, err := openOutput(out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeOut()

			ctx, cancel := a.context(cmd.Context())
			defer cancel()
			bw := bufio.NewWriter(w)
			err = ops.Walk(ctx, t, cycles, func(p ops.Path) error {
				bw.WriteString(p.String())
				if weights {
					bw.WriteByte('\t')
					bw.WriteString(strconv.FormatFloat(p.Weight, 'g', -1, 64))
				}
				return bw.WriteByte('\n')
			})
			if err != nil {
				return err
			}
			return bw.Flush()
		},
	}
	cmd.Flags().IntP("cycles", "c", ops.DefaultMaxCycles, "How often each cycle may be followed")
	cmd.Flags().Bool("weights", false, "Append the path weight after a tab")
	return cmd
}
