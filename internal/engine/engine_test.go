package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gesture-runner/internal/clock"
	"github.com/vovakirdan/gesture-runner/internal/config"
	"github.com/vovakirdan/gesture-runner/internal/gesture"
	"github.com/vovakirdan/gesture-runner/internal/gesture/keyboard"
	"github.com/vovakirdan/gesture-runner/internal/runner"
)

const (
	tick  = 30 * time.Millisecond
	frame = 20 * time.Millisecond
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, cfg Config) (*Engine, *clock.Manual) {
	t.Helper()
	m := clock.NewManual(epoch)
	cfg.Runner = config.DefaultRunnerConfig()
	cfg.Scheduler = m
	cfg.Logger = log.New(io.Discard)
	e := New(cfg)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	m.Drain()
	t.Cleanup(e.Stop)
	return e, m
}

// eventually drains the scheduler until cond holds or a second passes.
func eventually(t *testing.T, m *clock.Manual, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		m.Drain()
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within 1s")
}

func TestStartPublishesFreshSession(t *testing.T) {
	e, m := newTestEngine(t, Config{})

	snap := e.Snapshot()
	if len(snap.Obstacles) != 1 || snap.Obstacles[0] != 600 {
		t.Fatalf("obstacles = %v, want [600]", snap.Obstacles)
	}
	if snap.Phase != runner.PhaseIdle || snap.Score != 0 || snap.Over {
		t.Errorf("snapshot = %+v, want idle with zero score", snap)
	}

	m.Advance(tick)
	if got := e.Snapshot(); got.Ticks != 1 || got.Obstacles[0] != 595 {
		t.Errorf("after one tick: ticks=%d obstacles=%v", got.Ticks, got.Obstacles)
	}

	if err := e.Start(context.Background()); !errors.Is(err, ErrStarted) {
		t.Errorf("second Start = %v, want ErrStarted", err)
	}
}

func TestJumpArmsAndCancelsFrameTask(t *testing.T) {
	e, m := newTestEngine(t, Config{})

	e.TriggerJump()
	m.Advance(frame)

	snap := e.Snapshot()
	if snap.Phase != runner.PhaseAscending || snap.Height != 5 {
		t.Fatalf("after one frame: phase=%v height=%v", snap.Phase, snap.Height)
	}
	if m.Pending() != 2 {
		t.Errorf("pending tasks = %d, want tick and frame", m.Pending())
	}

	// A second trigger mid-jump changes nothing.
	e.TriggerJump()
	m.Advance(time.Duration(e.FramesPerJump()-1) * frame)

	snap = e.Snapshot()
	if snap.Phase != runner.PhaseIdle || snap.Height != 0 {
		t.Fatalf("after full jump: phase=%v height=%v", snap.Phase, snap.Height)
	}
	if snap.Jumps != 1 || snap.Frames != uint64(e.FramesPerJump()) {
		t.Errorf("jumps=%d frames=%d, want 1 and %d", snap.Jumps, snap.Frames, e.FramesPerJump())
	}
	if m.Pending() != 1 {
		t.Errorf("pending tasks = %d, want only the tick", m.Pending())
	}
}

func TestGameOverFiresOnceAndFreezes(t *testing.T) {
	e, m := newTestEngine(t, Config{})

	var ended []runner.Snapshot
	e.OnGameOver(func(s runner.Snapshot) { ended = append(ended, s) })

	// The first obstacle reaches x=40 on tick 112 with the player grounded.
	m.Advance(111 * tick)
	if e.Snapshot().Over {
		t.Fatal("game ended early")
	}
	m.Advance(tick)

	snap := e.Snapshot()
	if !snap.Over || snap.Ticks != 112 {
		t.Fatalf("over=%v ticks=%d, want over at tick 112", snap.Over, snap.Ticks)
	}
	if m.Pending() != 0 {
		t.Errorf("pending tasks = %d after game over, want 0", m.Pending())
	}

	e.TriggerJump()
	m.Advance(10 * tick)

	if len(ended) != 1 {
		t.Fatalf("OnGameOver fired %d times, want 1", len(ended))
	}
	if got := e.Snapshot(); got.Height != 0 || got.Ticks != 112 || got.Jumps != 0 {
		t.Errorf("frozen frame changed: %+v", got)
	}
	if ended[0].Duration() != 112*tick {
		t.Errorf("duration = %v, want %v", ended[0].Duration(), 112*tick)
	}
}

func TestRestartReplacesSession(t *testing.T) {
	e, m := newTestEngine(t, Config{})

	fired := 0
	e.OnGameOver(func(runner.Snapshot) { fired++ })

	m.Advance(112 * tick)
	if !e.Snapshot().Over {
		t.Fatal("expected game over")
	}

	e.Restart()
	m.Drain()

	snap := e.Snapshot()
	if snap.Over || snap.Ticks != 0 || len(snap.Obstacles) != 1 || snap.Obstacles[0] != 600 {
		t.Fatalf("after restart: %+v", snap)
	}
	if !snap.StartedAt.Equal(epoch.Add(112 * tick)) {
		t.Errorf("StartedAt = %v", snap.StartedAt)
	}

	m.Advance(112 * tick)
	if !e.Snapshot().Over || fired != 2 {
		t.Errorf("second session: over=%v fired=%d, want over and 2", e.Snapshot().Over, fired)
	}
}

func TestRestartMidJumpCancelsFrames(t *testing.T) {
	e, m := newTestEngine(t, Config{})

	e.TriggerJump()
	m.Advance(5 * frame)
	e.Restart()
	m.Advance(frame)

	snap := e.Snapshot()
	if snap.Phase != runner.PhaseIdle || snap.Height != 0 || snap.Frames != 0 {
		t.Errorf("after restart mid-jump: %+v", snap)
	}
	if m.Pending() != 1 {
		t.Errorf("pending tasks = %d, want only the tick", m.Pending())
	}
}

func TestTriggerIgnoredWhenStopped(t *testing.T) {
	m := clock.NewManual(epoch)
	e := New(Config{
		Runner:    config.DefaultRunnerConfig(),
		Scheduler: m,
		Logger:    log.New(io.Discard),
	})

	e.TriggerJump()
	m.Advance(frame)
	if e.Snapshot().Jumps != 0 {
		t.Error("trigger before Start should be ignored")
	}

	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	e.Stop()
	e.TriggerJump()
	m.Advance(time.Second)

	if snap := e.Snapshot(); snap.Jumps != 0 || snap.Ticks != 0 {
		t.Errorf("stopped engine changed state: %+v", snap)
	}
	if m.Pending() != 0 {
		t.Errorf("pending tasks = %d after Stop", m.Pending())
	}
}

// presenceDetector reports a hand on its first call only.
type presenceDetector struct {
	calls int
}

func (d *presenceDetector) Detect(ctx context.Context, _ gesture.Frame) ([]gesture.Detection, error) {
	d.calls++
	if d.calls == 1 {
		return []gesture.Detection{{Label: "hand", Score: 1}}, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Millisecond):
		return nil, nil
	}
}

func (d *presenceDetector) Close() error { return nil }

func TestBridgeTriggersJump(t *testing.T) {
	e, m := newTestEngine(t, Config{
		Load: func(context.Context, gesture.Options) (gesture.Detector, error) {
			return &presenceDetector{}, nil
		},
		Source: gesture.NewSyntheticSource(64, 48, 0),
	})

	eventually(t, m, func() bool { return e.Snapshot().Jumps == 1 })

	if e.Snapshot().Phase != runner.PhaseAscending {
		t.Errorf("phase = %v, want ascending", e.Snapshot().Phase)
	}
	if e.InputStats().Presences != 1 {
		t.Errorf("presences = %d, want 1", e.InputStats().Presences)
	}
}

// holdingScheduler parks posted callbacks while hold is set, so a test can
// run them later than the engine expects.
type holdingScheduler struct {
	*clock.Manual

	mu   sync.Mutex
	hold bool
	held []func()
}

func (h *holdingScheduler) Post(fn func()) {
	h.mu.Lock()
	if h.hold {
		h.held = append(h.held, fn)
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()
	h.Manual.Post(fn)
}

func (h *holdingScheduler) setHold(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hold = on
}

func (h *holdingScheduler) heldCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.held)
}

// gatedDetector reports one hand once release is closed. With a nil release
// it never sees a hand.
type gatedDetector struct {
	release chan struct{}
	fired   bool
}

func (d *gatedDetector) Detect(ctx context.Context, _ gesture.Frame) ([]gesture.Detection, error) {
	if d.release != nil && !d.fired {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-d.release:
		}
		d.fired = true
		return []gesture.Detection{{Label: "hand", Score: 1}}, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Millisecond):
		return nil, nil
	}
}

func (d *gatedDetector) Close() error { return nil }

func TestStaleTriggerDoesNotReachNewSession(t *testing.T) {
	sched := &holdingScheduler{Manual: clock.NewManual(epoch)}
	release := make(chan struct{})
	var loads atomic.Int32

	e := New(Config{
		Runner:    config.DefaultRunnerConfig(),
		Scheduler: sched,
		Load: func(context.Context, gesture.Options) (gesture.Detector, error) {
			if loads.Add(1) == 1 {
				return &gatedDetector{release: release}, nil
			}
			return &gatedDetector{}, nil
		},
		Source: gesture.NewSyntheticSource(64, 48, 0),
		Logger: log.New(io.Discard),
	})
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(e.Stop)
	sched.Drain()

	// Park the first session's trigger.
	sched.setHold(true)
	close(release)
	deadline := time.Now().Add(time.Second)
	for sched.heldCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("bridge never posted a trigger")
		}
		time.Sleep(time.Millisecond)
	}
	sched.setHold(false)

	e.Restart()
	sched.Drain()

	// Deliver it after the new session is in place.
	for _, fn := range sched.held {
		sched.Post(fn)
	}
	sched.Drain()

	snap := e.Snapshot()
	if snap.Jumps != 0 || snap.Phase != runner.PhaseIdle {
		t.Fatalf("stale trigger reached new session: jumps=%d phase=%v", snap.Jumps, snap.Phase)
	}

	e.TriggerJump()
	sched.Drain()
	if got := e.Snapshot().Jumps; got != 1 {
		t.Errorf("direct trigger: jumps = %d, want 1", got)
	}
}

func TestInputErrorReportedAndClearedOnRestart(t *testing.T) {
	loads := 0
	e, m := newTestEngine(t, Config{
		Load: func(context.Context, gesture.Options) (gesture.Detector, error) {
			loads++
			if loads == 1 {
				return nil, errors.New("camera busy")
			}
			return &presenceDetector{calls: 1}, nil
		},
		Source: gesture.NewSyntheticSource(64, 48, 0),
	})

	eventually(t, m, func() bool { return e.InputErr() != nil })
	if !errors.Is(e.InputErr(), gesture.ErrAcquisition) {
		t.Errorf("InputErr = %v, want ErrAcquisition", e.InputErr())
	}

	// The game keeps running without input.
	m.Advance(tick)
	if e.Snapshot().Ticks != 1 {
		t.Errorf("ticks = %d, want 1", e.Snapshot().Ticks)
	}

	e.Restart()
	if err := e.InputErr(); err != nil {
		t.Errorf("InputErr after restart = %v, want nil", err)
	}
}

func TestPressDrivesKeyboardDetector(t *testing.T) {
	e, m := newTestEngine(t, Config{
		Load:   keyboard.Load,
		Source: gesture.NewSyntheticSource(64, 48, 0),
	})

	eventually(t, m, func() bool { return e.Press() })
	eventually(t, m, func() bool { return e.Snapshot().Jumps == 1 })
}

func TestPressWithoutBridge(t *testing.T) {
	e, _ := newTestEngine(t, Config{})
	if e.Press() {
		t.Error("Press without a bridge should report false")
	}
}

func TestSimulate(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	logger := log.New(io.Discard)

	idle := Simulate(cfg, 1, time.Minute, func(int) bool { return false }, logger)
	if !idle.Snapshot.Over || idle.Snapshot.Ticks != 112 || idle.Presences != 0 {
		t.Errorf("idle run: %+v", idle)
	}

	// Hands every frame: the player is airborne almost all the time.
	busy := func(int) bool { return true }
	a := Simulate(cfg, 7, 10*time.Second, busy, logger)
	b := Simulate(cfg, 7, 10*time.Second, busy, logger)

	if a.Snapshot.Score != b.Snapshot.Score || a.Snapshot.Ticks != b.Snapshot.Ticks || a.Elapsed != b.Elapsed {
		t.Errorf("equal seeds diverged: %+v vs %+v", a.Snapshot, b.Snapshot)
	}
	if a.Presences == 0 || a.Snapshot.Jumps == 0 {
		t.Errorf("busy run never jumped: %+v", a)
	}
}

func TestStartRealtime(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.DefaultRunnerConfig()
	cfg.Timing.TickMs = 1
	e, err := StartRealtime(ctx, Config{
		Runner: cfg,
		Seed:   3,
		Load:   keyboard.Load,
		Source: gesture.NewSyntheticSource(64, 48, 0),
		Logger: log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("StartRealtime failed: %v", err)
	}
	defer e.Close()

	deadline := time.Now().Add(2 * time.Second)
	for e.Snapshot().Ticks < 5 {
		if time.Now().After(deadline) {
			t.Fatal("realtime engine did not tick")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
