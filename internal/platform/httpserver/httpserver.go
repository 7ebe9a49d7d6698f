package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"yojanamitra/internal/platform/config"
)

// New builds the HTTP server from the configured timeouts.
func New(addr string, cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully. onShutdown
// hooks run in order after in-flight requests finish, with the shutdown context.
func Run(ctx context.Context, srv *http.Server, cfg config.HTTPConfig, logger *slog.Logger, onShutdown ...func(context.Context)) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	for _, hook := range onShutdown {
		hook(shutdownCtx)
	}
	return err
}
