package main

import (
	"io"

	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/internal/presentation/graph"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [INPUT]",
		Short: "Export a transducer as a Mermaid diagram",
		Long: `Generates a Mermaid flowchart of the transducer.
Useful for documentation or visualizing small machines.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := ioArgs(args)
			highlight, _ := cmd.Flags().GetIntSlice("highlight")

			t, err := cli.ReadTransducer(in, cmd.InOrStdin())
			if err != nil {
				return err
			}

			var overlay *graph.Overlay
			if len(highlight) > 0 {
				overlay = &graph.Overlay{}
				for _, s := range highlight {
					if s < 0 || s >= t.Size() {
						return errors.Newf("state %d does not exist", s)
					}
					overlay.Highlight = append(overlay.Highlight, fst.StateID(s))
				}
			}
			_, err = io.WriteString(cmd.OutOrStdout(), graph.GenerateMermaid(t, overlay))
			return err
		},
	}
	cmd.Flags().IntSlice("highlight", nil, "States to highlight")
	return cmd
}
