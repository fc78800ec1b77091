package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	triggerSuccessful = "Function Trigger Successful"
	triggerFailed     = "Function Trigger Failed"
)

// warmerConfig encapsulates configuration options for the warmer component.
type warmerConfig struct {
	functionsPath string
	interval      time.Duration
	invokeTimeout time.Duration
}

// warmer is a component that periodically invokes a list of functions so that
// their runtimes stay initialized.
type warmer struct {
	config warmerConfig
	// All of the warmer's goroutines will send fatal errors here
	errCh chan error
	// All of these internal functions are overridable for testing purposes
	warmLoopFn    func(context.Context)
	warmAllFn     func(context.Context) error
	invokeFn      func(context.Context, target) error
	loadTargetsFn func(string) ([]target, error)
	lambdaClient  invokeAPI
	logger        zerolog.Logger
}

// newWarmer initializes and returns a warmer.
func newWarmer(
	lambdaClient invokeAPI,
	config warmerConfig,
	logger zerolog.Logger,
) *warmer {
	w := &warmer{
		config:       config,
		errCh:        make(chan error),
		lambdaClient: lambdaClient,
		logger:       logger,
	}
	w.warmLoopFn = w.warmLoop
	w.warmAllFn = w.warmAll
	w.invokeFn = w.invoke
	w.loadTargetsFn = loadTargets
	return w
}

// run coordinates the goroutines involved in warming. If any one of these
// goroutines encounters an unrecoverable error, everything shuts down.
func (w *warmer) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.warmLoopFn(ctx)
	}()

	// Wait for an error or a completed context
	var err error
	select {
	case err = <-w.errCh:
		cancel() // Shut it all down
	case <-ctx.Done():
		err = ctx.Err()
	}

	// Adapt wg to a channel that can be used in a select
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		wg.Wait()
	}()

	select {
	case <-doneCh:
	case <-time.After(3 * time.Second):
		// An in-flight invocation may still be running. It has its own timeout.
	}

	return err
}

// warmLoop warms every function right away and then once per interval. The
// function list is re-read every round so it can change without a restart.
func (w *warmer) warmLoop(ctx context.Context) {
	ticker := time.NewTicker(w.config.interval)
	defer ticker.Stop()
	for {
		if err := w.warmAllFn(ctx); err != nil {
			select {
			case w.errCh <- err:
			case <-ctx.Done():
			}
			return
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// warmAll invokes every function on the list once, one after another. A
// failure to invoke one function is logged and does not stop the others;
// only a list that cannot be read is an error.
func (w *warmer) warmAll(ctx context.Context) error {
	targets, err := w.loadTargetsFn(w.config.functionsPath)
	if err != nil {
		return errors.Wrap(err, "error loading function list")
	}
	logger := w.logger.With().Str("round_id", uuid.New().String()).Logger()
	for _, t := range targets {
		if ctx.Err() != nil {
			return nil
		}
		status := triggerSuccessful
		event := logger.Info()
		if err := w.invokeFn(ctx, t); err != nil {
			status = triggerFailed
			event = logger.Warn().Err(err)
		}
		event.Str("function", t.Name).Str("arn", t.ARN).Msgf(
			"LAMBDA FUNCTION NAME: %s | TRIGGER RESPONSE: %s",
			t.Name,
			status,
		)
	}
	return nil
}
