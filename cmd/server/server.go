package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hramlk99k/library-api/internal/config"
)

const shutdownTimeout = 20 * time.Second

// serve runs the HTTP server until ctx is cancelled, then gives in-flight
// requests shutdownTimeout to finish.
func serve(ctx context.Context, cfg *config.Config, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(h, appName),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownErr := make(chan error, 1)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server", "address", srv.Addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server",
		"address", srv.Addr,
		"mode", cfg.GinMode,
		"store", cfg.StoreDriver,
		"version", appVersion,
	)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	logger.Info("server stopped", "address", srv.Addr)
	return nil
}
