package main

import (
	"io"
	"os"

	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newFst2TxtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fst2txt [INPUT [OUTPUT]]",
		Short: "Write a transducer as AT&T text",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noWeights, _ := cmd.Flags().GetBool("no-weights")
			noHeaders, _ := cmd.Flags().GetBool("no-headers")
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
			return att.Write(w, t, att.Options{Weights: !noWeights, Headers: !noHeaders})
		},
	}
	cmd.Flags().Bool("no-weights", false, "Omit weights")
	cmd.Flags().Bool("no-headers", false, "Omit the tape and symbol headers")
	return cmd
}

func newTxt2FstCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txt2fst [INPUT [OUTPUT]]",
		Short: "Convert AT&T text into a transducer document",
		Long: `Reads AT&T text and writes a schema document. The format follows the output
extension, or --format when writing to stdout.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := ioArgs(args)
			name, _ := cmd.Flags().GetString("format")
			format, ok := schema.ParseFormat(name)
			if !ok {
				return errors.Newf("unknown format %q", name)
			}
			if f, ok := schema.FormatFromPath(out); ok && out != cli.Stdio && !cmd.Flags().Changed("format") {
				format = f
			}

			t, err := readATT(in, cmd.InOrStdin())
			if err != nil {
				return err
			}
			data, err := schema.Encode(schema.FromTransducer(t), format)
			if err != nil {
				return err
			}
			w, closeOut, err := openOutput(out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeOut()
			_, err = w.Write(data)
			return err
		},
	}
	cmd.Flags().StringP("format", "f", string(schema.FormatJSON), "Document format: json or yaml")
	return cmd
}

// readATT reads AT&T text whatever the extension of path.
func readATT(path string, stdin io.Reader) (*fst.Transducer, error) {
	if path == cli.Stdio {
		return att.Read(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	defer f.Close()
	t, err := att.Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return t, nil
}
