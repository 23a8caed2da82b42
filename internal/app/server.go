package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Start begins serving background consumers and returns a channel that is
// closed when a shutdown signal arrives.
func (a *App) Start() <-chan struct{} {
	slog.Info("application started", "pid", os.Getpid())

	wait := make(chan struct{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig.String())
		close(wait)
	}()

	return wait
}

// Stop gracefully shuts down background workers and closes all resources.
func (a *App) Stop(ctx context.Context) {
	a.cancel()

	if err := a.goroutine.Wait(); err != nil {
		slog.Warn("some background goroutines finished with errors", "error", err)
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.Warn("failed to close resource", "name", closer.name, "error", err)
		}
	}

	slog.Info("application stopped")
}
