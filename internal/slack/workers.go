package slack

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

// Workers runs slash command processing off the request path and lets the
// caller wait for it.
type Workers struct {
	wg     sync.WaitGroup
	logger zerolog.Logger
}

// NewWorkers returns an empty set of Workers.
func NewWorkers(logger zerolog.Logger) *Workers {
	return &Workers{logger: logger}
}

// Go runs fn on its own goroutine. A panic in fn is logged and does not take
// the process down.
func (w *Workers) Go(name string, fn func()) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error().
					Interface("panic", r).
					Str("worker", name).
					Str("stack", string(debug.Stack())).
					Msg("worker panicked")
			}
		}()
		fn()
	}()
}

// Wait blocks until every worker started so far has returned or the context
// is done, whichever happens first.
func (w *Workers) Wait(ctx context.Context) error {
	// Adapt wg to a channel that can be used in a select
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		w.wg.Wait()
	}()
	select {
	case <-doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
