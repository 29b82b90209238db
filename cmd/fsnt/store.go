package main

import (
	"fmt"

	"github.com/aretw0/fsnt"
	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/ports"
	"github.com/spf13/cobra"
)

// withStore opens the configured store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(a *app, store ports.TransducerStore) error) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := cli.OpenStore(a.cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(a, store)
}

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage named transducers in the configured store",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored transducers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(a *app, store ports.TransducerStore) error {
					names, err := store.List(cmd.Context())
					if err != nil {
						return err
					}
					for _, n := range names {
						fmt.Fprintln(cmd.OutOrStdout(), n)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "put NAME [INPUT]",
			Short: "Store a transducer under NAME",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				in, _ := ioArgs(args[1:])
				t, err := cli.ReadTransducer(in, cmd.InOrStdin())
				if err != nil {
					return err
				}
				return withStore(cmd, func(a *app, store ports.TransducerStore) error {
					if err := store.Save(cmd.Context(), args[0], t); err != nil {
						return err
					}
					a.logger.Info("Transducer stored", "name", args[0], "states", t.Size())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "get NAME [OUTPUT]",
			Short: "Write a stored transducer",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cli.Stdio
				if len(args) > 1 {
					out = args[1]
				}
				return withStore(cmd, func(a *app, store ports.TransducerStore) error {
					t, err := store.Load(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return cli.WriteTransducer(out, t, cmd.OutOrStdout(), att.DefaultOptions)
				})
			},
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a stored transducer",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(a *app, store ports.TransducerStore) error {
					return store.Delete(cmd.Context(), args[0])
				})
			},
		},
		newStoreComposeCmd(),
	)
	return cmd
}

func newStoreComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose LEFT RIGHT",
		Short: "Compose two stored transducers",
		Long: `Composes two stored transducers. With --output the result is stored under that
name; otherwise it is written to stdout as AT&T text.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(a *app, store ports.TransducerStore) error {
				glue, err := composeFlags(cmd, a)
				if err != nil {
					return err
				}
				output, _ := cmd.Flags().GetString("output")
				strip, _ := cmd.Flags().GetBool("strip")

				ctx, cancel := a.context(cmd.Context())
				defer cancel()
				kit := cli.NewToolkit(a.cfg, store, a.logger, cli.DebugHooks(a.logger))
				result, err := kit.ComposeStored(ctx, fsnt.ComposeRequest{
					Left:   args[0],
					Right:  args[1],
					Glue:   glue,
					Output: output,
					Strip:  strip,
				})
				if err != nil {
					return err
				}
				if output != "" {
					return nil
				}
				return att.Write(cmd.OutOrStdout(), result, att.DefaultOptions)
			})
		},
	}
	addComposeFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Store the result under this name")
	return cmd
}
