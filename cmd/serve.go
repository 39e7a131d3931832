package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/booklet/internal/config"
	"github.com/lehigh-university-libraries/booklet/internal/handlers"
	"github.com/lehigh-university-libraries/booklet/internal/images"
	"github.com/lehigh-university-libraries/booklet/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the booklet HTTP API",
		Long: `Starts the booklet API on the configured port.

Projects live in memory and expire after store_ttl without access. Save them
with GET /api/projects/{id}/save to keep them.`,
		Example: `  # Start server on default port 8888
  booklet serve

  # Start server on custom port
  booklet serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			generator, err := a.generator()
			if err != nil {
				return err
			}
			// requests that need a missing credential fail individually
			if err := a.cfg.RequireCredential(a.cfg.TextProvider); err != nil {
				slog.Warn("Booklet generation will fail", "provider", a.cfg.TextProvider, "err", err)
			}
			if err := a.cfg.RequireCredential(config.ProviderGemini); err != nil {
				slog.Warn("Illustration will fail", "provider", config.ProviderGemini, "err", err)
			}
			store := storage.New(a.cfg.StoreTTL)
			handler := handlers.New(store, generator, images.NewFetcher(), a.cfg.IllustrationInterval)

			addr := ":" + a.cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				slog.Info("Booklet API available", "addr", addr, "url", "http://localhost"+addr, "text_provider", a.cfg.TextProvider)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringP("port", "p", "8888", "Port to listen on")
	_ = a.v.BindPFlag("port", cmd.Flags().Lookup("port"))

	return cmd
}
