package runner

import "time"

// Snapshot is a read-only copy of the observable session state, safe to hand
// to another goroutine for rendering.
type Snapshot struct {
	Height    float64
	Phase     JumpPhase
	Obstacles []float64 // X positions in creation order
	Score     int
	Over      bool
	Ticks     uint64
	Frames    uint64
	Jumps     int
	Cleared   int
	StartedAt time.Time
	EndedAt   time.Time
}

// Snapshot copies the current session state.
func (g *Game) Snapshot() Snapshot {
	s := g.session

	xs := make([]float64, len(s.Obstacles))
	for i, o := range s.Obstacles {
		xs[i] = o.X
	}

	return Snapshot{
		Height:    s.Player.Height,
		Phase:     s.Player.Phase,
		Obstacles: xs,
		Score:     s.Score,
		Over:      s.Over,
		Ticks:     s.Ticks,
		Frames:    s.Frames,
		Jumps:     s.Jumps,
		Cleared:   s.Cleared,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

// Duration returns the length of the run captured by the snapshot.
func (s Snapshot) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
