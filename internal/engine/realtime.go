package engine

import (
	"context"
	"errors"

	"github.com/vovakirdan/gesture-runner/internal/clock"
)

// loopBuffer bounds the callbacks queued between two loop iterations.
const loopBuffer = 64

// StartRealtime runs an engine on a wall-clock loop owned by the engine.
// The loop goroutine exits when ctx is cancelled or Close is called.
func StartRealtime(ctx context.Context, cfg Config) (*Engine, error) {
	loop := clock.NewLoop(loopBuffer)
	cfg.Scheduler = loop

	e := New(cfg)
	e.loop = loop

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Error("scheduler stopped", "error", err)
		}
	}()

	if err := e.Start(ctx); err != nil {
		loop.Stop()
		return nil, err
	}
	return e, nil
}

// Close stops the engine and the loop it owns.
func (e *Engine) Close() {
	e.Stop()
	if e.loop != nil {
		e.loop.Stop()
	}
}
