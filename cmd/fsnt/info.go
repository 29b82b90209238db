package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/internal/presentation/tui"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [INPUT]",
		Short: "Summarize a transducer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := ioArgs(args)
			asJSON, _ := cmd.Flags().GetBool("json")

			t, err := cli.ReadTransducer(in, cmd.InOrStdin())
			if err != nil {
				return err
			}
			summary := ops.Summarize(t)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			name := "stdin"
			if in != cli.Stdio {
				name = filepath.Base(in)
			}
			render := tui.NewRenderer(cli.IsTerminal(out))
			text, err := render(tui.SummaryMarkdown(name, summary))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, text)
			return err
		},
	}
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}
