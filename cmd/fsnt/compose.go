package main

import (
	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/pkg/adapters/memory"
	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/compose"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func addComposeFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("glue", "g", nil, "Glued tape pair left:right (repeatable)")
	cmd.Flags().Bool("flags-as-epsilon", false, "Let flag diacritics match like epsilon on glued tapes")
	cmd.Flags().Int("max-states", 0, "Abort when the result exceeds this many states (0 = no limit)")
	cmd.Flags().Int("max-backlog", 0, "Abort when a tape backlog exceeds this many symbols (0 = no limit)")
	cmd.Flags().Bool("strip", false, "Remove states that are unreachable or cannot reach a final state")
}

// composeFlags applies the command line over the configured composition defaults.
func composeFlags(cmd *cobra.Command, a *app) ([]compose.Glue, error) {
	pairs, _ := cmd.Flags().GetStringArray("glue")
	glue := make([]compose.Glue, 0, len(pairs))
	for _, p := range pairs {
		g, err := compose.ParseGlue(p)
		if err != nil {
			return nil, err
		}
		glue = append(glue, g)
	}
	if cmd.Flags().Changed("flags-as-epsilon") {
		a.cfg.Compose.FlagsAsEpsilon, _ = cmd.Flags().GetBool("flags-as-epsilon")
	}
	if cmd.Flags().Changed("max-states") {
		a.cfg.Compose.MaxStates, _ = cmd.Flags().GetInt("max-states")
	}
	if cmd.Flags().Changed("max-backlog") {
		a.cfg.Compose.MaxBacklog, _ = cmd.Flags().GetInt("max-backlog")
	}
	return glue, nil
}

func newComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose LEFT RIGHT [OUTPUT]",
		Short: "Compose two transducers over glued tapes",
		Long: `Composes LEFT and RIGHT. Each --glue pair names a tape of LEFT and the tape of RIGHT
it is matched against. The result keeps the tapes of LEFT followed by the unglued
tapes of RIGHT.`,
		Example: "  fsnt compose -g surface:input lexicon.att rules.att analyzer.json",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			glue, err := composeFlags(cmd, a)
			if err != nil {
				return err
			}
			if args[0] == cli.Stdio && args[1] == cli.Stdio {
				return errors.New("only one input can be read from stdin")
			}
			out := cli.Stdio
			if len(args) > 2 {
				out = args[2]
			}

			left, err := cli.ReadTransducer(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			right, err := cli.ReadTransducer(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd.Context())
			defer cancel()
			kit := cli.NewToolkit(a.cfg, memory.NewStore(), a.logger, cli.DebugHooks(a.logger))
			result, err := kit.Compose(ctx, left, right, glue)
			if err != nil {
				return err
			}
			if strip, _ := cmd.Flags().GetBool("strip"); strip {
				result = ops.Strip(result)
			}
			return cli.WriteTransducer(out, result, cmd.OutOrStdout(), att.DefaultOptions)
		},
	}
	addComposeFlags(cmd)
	return cmd
}
