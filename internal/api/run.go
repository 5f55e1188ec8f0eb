package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/session"
	"github.com/dgallion1/domview/internal/stats"
)

// Run serves the viewer until ctx is cancelled, then shuts down the HTTP
// server and the session janitor.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	rec := stats.New(time.Hour)

	sessions := session.NewManager(cfg, rec, log)
	sessions.Start(ctx)

	srv := NewServer(sessions, rec, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting domview", "port", cfg.Port, "debug", cfg.Debug)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		sessions.Stop()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	sessions.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
