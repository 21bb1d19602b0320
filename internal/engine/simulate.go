package engine

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gesture-runner/internal/clock"
	"github.com/vovakirdan/gesture-runner/internal/config"
	"github.com/vovakirdan/gesture-runner/internal/runner"
)

// SimulationResult is the outcome of a headless run.
type SimulationResult struct {
	Snapshot  runner.Snapshot
	Presences int           // Detector frames that saw a hand
	Elapsed   time.Duration // Virtual time played
}

// Simulate plays one session on virtual time without a bridge. present is
// asked once per detector frame whether a hand is visible, the way a
// detector polled at detector.frame_ms would be. The run ends at game over
// or once limit has elapsed.
func Simulate(cfg config.RunnerConfig, seed int64, limit time.Duration, present func(i int) bool, logger *log.Logger) SimulationResult {
	m := clock.NewManual(time.Unix(0, 0).UTC())
	e := New(Config{
		Runner:    cfg,
		Scheduler: m,
		Seed:      seed,
		Logger:    logger,
	})

	over := false
	e.OnGameOver(func(runner.Snapshot) { over = true })
	if err := e.Start(context.Background()); err != nil {
		panic(err)
	}
	m.Drain()

	var res SimulationResult
	frame := 0
	m.Every(cfg.Detector.FrameInterval(), func() {
		if present(frame) {
			res.Presences++
			e.TriggerJump()
		}
		frame++
	})

	step := cfg.Timing.TickInterval()
	for res.Elapsed < limit && !over {
		m.Advance(step)
		res.Elapsed += step
	}

	e.Stop()
	m.Drain()

	res.Snapshot = e.Snapshot()
	return res
}
