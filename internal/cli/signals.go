package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// WithShutdown returns a context that is cancelled when a signal arrives on
// shutdown. If shutdown is nil, a channel is created and registered for
// SIGINT and SIGTERM. Backend calls observe the cancellation; a browser
// action already in flight runs until its own timeout.
func WithShutdown(parent context.Context, shutdown chan os.Signal, logger *slog.Logger) (context.Context, context.CancelFunc) {
	registered := false
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		registered = true
	}

	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case sig := <-shutdown:
			logger.Warn("received signal, stopping", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		if registered {
			signal.Stop(shutdown)
		}
		cancel()
	}
}
