// Package shutdown runs a blocking command until it finishes or the process
// is asked to stop.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ErrTimeout is returned when the command ignores cancellation for longer
// than the grace period.
var ErrTimeout = errors.New("shutdown timeout exceeded")

// Option configures Run.
type Option func(*runner)

type runner struct {
	signals <-chan os.Signal
}

// WithSignals replaces SIGINT/SIGTERM delivery with ch.
func WithSignals(ch <-chan os.Signal) Option {
	return func(r *runner) { r.signals = ch }
}

// Run calls fn and blocks until it returns. On SIGINT or SIGTERM the
// context passed to fn is cancelled and fn gets grace to wind down. A
// cancelled fn is not an error: commands stop cleanly on a signal.
func Run(ctx context.Context, logger *slog.Logger, grace time.Duration, fn func(context.Context) error, opts ...Option) error {
	r := &runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.signals == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)
		r.signals = ch
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(runCtx)
	}()

	select {
	case err := <-done:
		return err
	case sig := <-r.signals:
		logger.Info("received signal, stopping", "signal", sig)
	}

	cancel()
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("stopped")
		return nil
	case <-timer.C:
		logger.Warn("shutdown timeout exceeded", "grace", grace)
		return ErrTimeout
	}
}
