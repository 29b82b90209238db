package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/fsnt"
	"github.com/aretw0/fsnt/internal/cli"
	"github.com/aretw0/fsnt/internal/presentation/tui"
	api "github.com/aretw0/fsnt/pkg/adapters/http"
	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/observability"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves the configured store and composition over a JSON API, with an OpenAPI document and Prometheus metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}

			store, closeStore, err := cli.OpenStore(a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			opts := []api.Option{api.WithMaxStates(a.cfg.Server.MaxStates)}
			hooks := []domain.ComposeHooks{cli.DebugHooks(a.logger)}
			if a.cfg.Server.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				hooks = append(hooks, observability.NewMetrics(reg).Hooks())
				opts = append(opts, api.WithGatherer(reg))
			}
			kit := cli.NewToolkit(a.cfg, store, a.logger, hooks...)

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", a.cfg.Server.Port),
				Handler: api.NewHandler(kit, opts...),
			}

			tui.PrintBanner(cmd.ErrOrStderr(), fsnt.Version)

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				a.logger.Info("HTTP server listening", "address", srv.Addr, "store", a.cfg.Store.Kind)
				serverErrors <- srv.ListenAndServe()
			}()

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return errors.Wrap(err, "server error")
			case <-ctx.Done():
				cli.PrintSystemMessage(cmd.ErrOrStderr(), "Shutting down (signal: %v)", ctx.Signal())

				// Give outstanding requests a deadline for completion.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("Graceful shutdown did not complete", "err", err)
					return srv.Close()
				}
				a.logger.Info("HTTP server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	return cmd
}
