package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clintrovert/sprintreport/internal/api/rest"
)

func serveCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sprint reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()

			ctx := cmd.Context()
			a, err := setup(ctx, opts, logger)
			if err != nil {
				return err
			}

			// The configured JQL is optional here; requests may bring their own.
			defaultJQL, err := a.cfg.JQL()
			if err != nil {
				logger.Warn("no default jql", zap.Error(err))
			}

			handler := rest.NewHandler(a.orchestrator, defaultJQL, logger)
			server := &http.Server{
				Addr:    addr,
				Handler: rest.NewRouter(handler),
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting REST API server", zap.String("address", addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("failed to start REST server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down REST server: %w", err)
			}

			logger.Info("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")

	return cmd
}
