// Package runner implements the gesture runner's game-state engine: the jump
// state machine, the obstacle spawner/mover and the collision-and-scoring
// evaluator, all operating on one shared Session.
//
// Nothing in this package is safe for concurrent use. The host drives it from
// a single scheduler thread (see internal/clock).
package runner

import (
	"fmt"
	"time"
)

// JumpPhase is the player's vertical state.
type JumpPhase int

const (
	PhaseIdle JumpPhase = iota
	PhaseAscending
	PhaseDescending
)

// String returns a human-readable name for the phase.
func (p JumpPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAscending:
		return "ascending"
	case PhaseDescending:
		return "descending"
	default:
		return "unknown"
	}
}

// PlayerState is the player's height above the baseline and jump phase.
type PlayerState struct {
	Height float64
	Phase  JumpPhase
}

// Obstacle is a ground obstacle moving leftward.
type Obstacle struct {
	ID     uint64  // Creation order, starting at 1 per session
	X      float64 // Horizontal position
	Scored bool    // Set once the obstacle has paid its reward
}

// Session is the single mutable aggregate of one run. Every component
// receives it by reference; none keeps a copy.
type Session struct {
	Player    PlayerState
	Obstacles []Obstacle
	Score     int
	Over      bool

	LastSpawnAt  time.Time
	NextSpawnGap time.Duration

	StartedAt time.Time
	EndedAt   time.Time // Zero until Over
	Ticks     uint64    // Ticks applied while not over
	Frames    uint64    // Jump frames applied
	Jumps     int       // Jumps started
	Cleared   int       // Obstacles scored

	nextID uint64
}

// checkInvariants panics when the session is in a state no sequence of valid
// operations can produce. These are programming errors, so they are not
// clamped away.
func (s *Session) checkInvariants(peak float64) {
	h := s.Player.Height
	if h < 0 || h > peak {
		panic(fmt.Sprintf("runner: height %g outside [0, %g]", h, peak))
	}
	if s.Player.Phase == PhaseIdle && h != 0 {
		panic(fmt.Sprintf("runner: idle at height %g", h))
	}
	if s.Score < 0 {
		panic(fmt.Sprintf("runner: negative score %d", s.Score))
	}
	for i := 1; i < len(s.Obstacles); i++ {
		if s.Obstacles[i].ID <= s.Obstacles[i-1].ID {
			panic("runner: obstacles out of creation order")
		}
	}
}
