package runner

import (
	"time"

	"github.com/vovakirdan/gesture-runner/internal/config"
)

// ID is the identifier scores are stored under.
const ID = "runner"

// Title is the display name.
const Title = "Gesture Runner"

// TickResult reports what a tick did.
type TickResult struct {
	Outcome
	Spawned  bool // A new obstacle was appended
	GameOver bool // The run ended on this tick
	Frozen   bool // The run was already over; nothing changed
}

// Game aggregates the components around the current Session.
type Game struct {
	cfg       config.RunnerConfig
	jump      *JumpController
	obstacles *ObstacleManager
	eval      *Evaluator
	session   *Session
}

// New creates a game and its first session.
func New(cfg config.RunnerConfig, now time.Time, seed int64) *Game {
	g := &Game{
		cfg:       cfg,
		jump:      NewJumpController(cfg.Physics),
		obstacles: NewObstacleManager(cfg.Obstacles, seed),
		eval:      NewEvaluator(cfg.Scoring, cfg.Physics.GroundThreshold),
	}
	g.Reset(now, seed)
	return g
}

// Config returns the configuration the game runs with.
func (g *Game) Config() config.RunnerConfig {
	return g.cfg
}

// Reset discards the current session and starts a new one: grounded, idle,
// one obstacle at the spawn edge, zero score. The RNG is reseeded, so equal
// seeds replay equal obstacle pacing.
func (g *Game) Reset(now time.Time, seed int64) *Session {
	g.obstacles.Reseed(seed)

	s := &Session{
		StartedAt: now,
	}
	g.obstacles.spawn(s, now)
	s.checkInvariants(g.cfg.Physics.PeakHeight)

	g.session = s
	return s
}

// Session returns the current session.
func (g *Game) Session() *Session {
	return g.session
}

// Tick advances obstacles by one tick: move, evaluate, then spawn.
// Once the session is over, Tick changes nothing.
func (g *Game) Tick(now time.Time) TickResult {
	s := g.session
	if s.Over {
		return TickResult{Frozen: true}
	}

	s.Ticks++
	g.obstacles.Move(s)

	res := TickResult{Outcome: g.eval.Evaluate(s)}
	if s.Over {
		s.EndedAt = now
		res.GameOver = true
	} else {
		res.Spawned = g.obstacles.MaybeSpawn(s, now)
	}

	s.checkInvariants(g.cfg.Physics.PeakHeight)
	return res
}

// TriggerJump starts a jump if the player is idle. It returns true when a
// jump started and frames need to be scheduled.
func (g *Game) TriggerJump() bool {
	return g.jump.Trigger(g.session)
}

// AdvanceJump applies one jump frame. It returns false when there is nothing
// left to animate: the player is idle or the session is over.
func (g *Game) AdvanceJump() bool {
	s := g.session
	if s.Over {
		return false
	}
	inFlight := g.jump.Advance(s)
	s.checkInvariants(g.cfg.Physics.PeakHeight)
	return inFlight
}

// FramesPerJump returns the fixed length of one jump in frames.
func (g *Game) FramesPerJump() int {
	return g.jump.FramesPerJump()
}
