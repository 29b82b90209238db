package main

import (
	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/pkg/adapters/mcp"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server",
		Long:  `Exposes the configured store to MCP clients through the list_transducers, compose and expand tools.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")

			store, closeStore, err := cli.OpenStore(a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			kit := cli.NewToolkit(a.cfg, store, a.logger, cli.DebugHooks(a.logger))
			srv := mcp.NewServer(kit)

			switch transport {
			case "stdio":
				// Stdout carries the protocol; logs already go to stderr.
				return srv.ServeStdio()
			case "sse":
				ctx := cli.NewSignalContext(cmd.Context())
				defer ctx.Cancel()
				a.logger.Info("Starting MCP server", "transport", "sse", "port", port)
				return srv.ServeSSE(ctx, port)
			default:
				return errors.Newf("unknown transport %q (use stdio or sse)", transport)
			}
		},
	}
	cmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	cmd.Flags().IntP("port", "p", 8081, "Port for the sse transport")
	return cmd
}
