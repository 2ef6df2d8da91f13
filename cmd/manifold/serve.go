package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Sternrassler/manifold-client/internal/gateway"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful shutdown of the gateway.
const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			router := gateway.SetupRouter(a.cfg.Server.Mode, gateway.NewHandler(svc, a.cfg.Server.LookupTimeout))
			server := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info().
					Str("addr", server.Addr).
					Bool("store", svc.StoreEnabled()).
					Msg("Starting Manifold gateway")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			a.logger.Info().Msg("Shutting down Manifold gateway")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("mode", "release", "Gin mode (debug, release, test)")
	cmd.Flags().Duration("lookup-timeout", 0, "Bound on one lookup including all batches (0 = none)")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("server.mode", cmd.Flags().Lookup("mode"))
	_ = a.v.BindPFlag("server.lookup_timeout", cmd.Flags().Lookup("lookup-timeout"))

	return cmd
}
