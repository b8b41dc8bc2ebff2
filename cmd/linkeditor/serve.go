package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/linkeditor/internal/api"
	"github.com/joestump/linkeditor/internal/auth"
	"github.com/joestump/linkeditor/internal/build"
	"github.com/joestump/linkeditor/internal/handler"
	"github.com/joestump/linkeditor/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the lookup API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadServer()
			if err != nil {
				return err
			}
			defer log.Sync()

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			linkStore := store.NewLinkStore(database)
			keywordStore := store.NewKeywordStore(database)
			if err := api.RefreshGauges(ctx, linkStore, keywordStore); err != nil {
				log.Warnw("failed to initialise gauges", "error", err)
			}

			deps := api.Deps{Links: linkStore, Keywords: keywordStore, Log: log}
			if cfg.API.RequireToken {
				deps.BearerAuth = auth.NewBearerTokenMiddleware(auth.NewSQLTokenStore(database), log)
			}

			srv := &http.Server{
				Addr: cfg.HTTP.Addr,
				Handler: handler.NewRouter(handler.Deps{
					API:     api.NewAPIRouter(deps),
					DB:      database,
					Metrics: cfg.Metrics.Enabled,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Infow("listening", "addr", cfg.HTTP.Addr, "version", build.Version, "require_token", cfg.API.RequireToken)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
