// Package engine hosts a runner.Game on a clock.Scheduler: it arms the
// obstacle tick and the jump frame tasks, runs the gesture bridge and
// publishes snapshots for renderers.
//
// Game state is only touched from scheduler callbacks. Every exported
// method is safe to call from any goroutine.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gesture-runner/internal/clock"
	"github.com/vovakirdan/gesture-runner/internal/config"
	"github.com/vovakirdan/gesture-runner/internal/gesture"
	"github.com/vovakirdan/gesture-runner/internal/runner"
)

// ErrStarted is returned by Start when the engine is already running.
var ErrStarted = errors.New("engine: already started")

// Config configures an Engine.
type Config struct {
	Runner    config.RunnerConfig
	Scheduler clock.Scheduler
	Seed      int64 // Session n is seeded with Seed+n

	// Load and Source drive the gesture bridge. A nil Load runs without one;
	// jumps then only come from TriggerJump.
	Load   gesture.Loader
	Source gesture.VideoSource

	Logger *log.Logger
}

// Engine runs one game at a time.
type Engine struct {
	cfg    Config
	sched  clock.Scheduler
	logger *log.Logger
	game   *runner.Game
	loop   *clock.Loop // Set when the engine owns its scheduler

	// Owned by the scheduler thread. Callbacks never take mu: Restart holds
	// it while waiting for a bridge that may be blocked in Post.
	tick     clock.Handle
	frame    clock.Handle
	gen      uint64
	sessions int64

	snap     atomic.Pointer[runner.Snapshot]
	inputErr atomic.Pointer[error]

	mu           sync.Mutex
	ctx          context.Context
	started      bool
	nextGen      uint64
	bridge       *gesture.Bridge
	cancelBridge context.CancelFunc
	bridgeDone   chan struct{}

	hookMu     sync.Mutex
	onGameOver func(runner.Snapshot)
}

// New creates an engine. The first session is built immediately so Snapshot
// is valid before Start.
func New(cfg Config) *Engine {
	if cfg.Scheduler == nil {
		panic("engine: nil scheduler")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	e := &Engine{
		cfg:    cfg,
		sched:  cfg.Scheduler,
		logger: logger.WithPrefix("engine"),
		game:   runner.New(cfg.Runner, cfg.Scheduler.Now(), cfg.Seed),
	}
	e.publish()
	return e
}

// OnGameOver registers fn to run once per session when it ends. fn runs on
// the scheduler thread and must not block.
func (e *Engine) OnGameOver(fn func(runner.Snapshot)) {
	e.hookMu.Lock()
	defer e.hookMu.Unlock()
	e.onGameOver = fn
}

// Start begins the first session and the bridge. The bridge stops when ctx
// is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrStarted
	}
	e.started = true
	e.ctx = ctx

	e.beginLocked()
	return nil
}

// Restart discards the current session and starts a fresh one. The bridge
// is stopped first and its in-flight detection awaited, so no trigger from
// the old bridge reaches the new session.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}
	e.stopBridgeLocked()
	e.beginLocked()
}

// Stop cancels the periodic tasks and waits for the bridge to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}
	e.started = false
	e.stopBridgeLocked()
	e.sched.Post(func() {
		e.gen = 0
		e.cancelTasks()
	})
}

// TriggerJump asks the current session to jump.
func (e *Engine) TriggerJump() {
	e.sched.Post(e.triggerJump)
}

// Press forwards a key press to a detector that stands in for a hand. It
// reports false when the running detector is not key driven.
func (e *Engine) Press() bool {
	e.mu.Lock()
	b := e.bridge
	e.mu.Unlock()

	if b == nil {
		return false
	}
	p, ok := b.Detector().(gesture.Presser)
	if !ok {
		return false
	}
	p.Press()
	return true
}

// Snapshot returns the state published after the last scheduler callback.
func (e *Engine) Snapshot() runner.Snapshot {
	return *e.snap.Load()
}

// InputErr returns the error that stopped the bridge, if any. It is cleared
// on restart.
func (e *Engine) InputErr() error {
	if p := e.inputErr.Load(); p != nil {
		return *p
	}
	return nil
}

// InputStats returns the bridge counters of the current session.
func (e *Engine) InputStats() gesture.Stats {
	e.mu.Lock()
	b := e.bridge
	e.mu.Unlock()

	if b == nil {
		return gesture.Stats{}
	}
	return b.Stats()
}

// FramesPerJump returns the fixed jump length in frames.
func (e *Engine) FramesPerJump() int {
	return e.game.FramesPerJump()
}

// beginLocked queues a session reset and starts a bridge bound to it.
func (e *Engine) beginLocked() {
	e.nextGen++
	gen := e.nextGen
	e.inputErr.Store(nil)

	e.sched.Post(func() {
		e.reset(gen)
	})
	e.startBridgeLocked(gen)
}

// reset runs on the scheduler thread.
func (e *Engine) reset(gen uint64) {
	e.cancelTasks()
	e.gen = gen

	seed := e.cfg.Seed + e.sessions
	e.sessions++
	e.game.Reset(e.sched.Now(), seed)
	e.tick = e.sched.Every(e.cfg.Runner.Timing.TickInterval(), e.onTick)

	e.logger.Debug("session started", "seed", seed)
	e.publish()
}

func (e *Engine) cancelTasks() {
	if e.tick != nil {
		e.tick.Cancel()
		e.tick = nil
	}
	if e.frame != nil {
		e.frame.Cancel()
		e.frame = nil
	}
}

func (e *Engine) onTick() {
	res := e.game.Tick(e.sched.Now())
	if res.Frozen {
		return
	}
	e.publish()

	if res.GameOver {
		e.cancelTasks()
		snap := e.Snapshot()
		e.logger.Info("game over", "score", snap.Score, "ticks", snap.Ticks, "jumps", snap.Jumps)

		e.hookMu.Lock()
		fn := e.onGameOver
		e.hookMu.Unlock()
		if fn != nil {
			fn(snap)
		}
	}
}

func (e *Engine) triggerJump() {
	if e.gen == 0 || !e.game.TriggerJump() {
		return
	}
	if e.frame == nil {
		e.frame = e.sched.Every(e.cfg.Runner.Timing.FrameInterval(), e.onFrame)
	}
	e.publish()
}

func (e *Engine) onFrame() {
	if !e.game.AdvanceJump() && e.frame != nil {
		e.frame.Cancel()
		e.frame = nil
	}
	e.publish()
}

func (e *Engine) publish() {
	snap := e.game.Snapshot()
	e.snap.Store(&snap)
}

func (e *Engine) startBridgeLocked(gen uint64) {
	if e.cfg.Load == nil {
		return
	}

	ctx, cancel := context.WithCancel(e.ctx)
	done := make(chan struct{})

	b := gesture.NewBridge(gesture.BridgeConfig{
		Load:    e.cfg.Load,
		Options: gesture.OptionsFromConfig(e.cfg.Runner.Detector),
		Source:  e.cfg.Source,
		OnPresence: func(gesture.Event) {
			e.sched.Post(func() {
				if e.gen == gen {
					e.triggerJump()
				}
			})
		},
		Retry:                  e.cfg.Runner.Detector.FrameInterval(),
		MaxConsecutiveFailures: e.cfg.Runner.Detector.MaxConsecutiveFailures,
		Logger:                 e.logger,
	})

	go func() {
		defer close(done)
		if err := b.Run(ctx); err != nil {
			e.inputErr.Store(&err)
		}
	}()

	e.bridge = b
	e.cancelBridge = cancel
	e.bridgeDone = done
}

func (e *Engine) stopBridgeLocked() {
	if e.cancelBridge == nil {
		return
	}
	e.cancelBridge()
	<-e.bridgeDone

	e.bridge = nil
	e.cancelBridge = nil
	e.bridgeDone = nil
}
