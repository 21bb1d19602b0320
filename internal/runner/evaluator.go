package runner

import "github.com/vovakirdan/gesture-runner/internal/config"

// Outcome is what one evaluation pass did to the session.
type Outcome struct {
	Scored    int  // Obstacles that paid out this pass
	Collision bool // The player was grounded with an obstacle in the zone
}

// Evaluator judges obstacles in the judgment zone against the player height.
//
// Convention: grounded with an obstacle in the zone ends the run; airborne
// with an obstacle in the zone scores it, once per obstacle.
type Evaluator struct {
	cfg    config.Scoring
	ground float64
}

// NewEvaluator creates an evaluator. groundThreshold is the height at or
// below which the player counts as grounded.
func NewEvaluator(cfg config.Scoring, groundThreshold float64) *Evaluator {
	return &Evaluator{cfg: cfg, ground: groundThreshold}
}

// InZone reports whether x lies inside the inclusive judgment zone.
func (e *Evaluator) InZone(x float64) bool {
	return x >= e.cfg.ZoneMin && x <= e.cfg.ZoneMax
}

// Grounded reports whether the player is on the ground.
func (e *Evaluator) Grounded(p PlayerState) bool {
	return p.Height <= e.ground
}

// Evaluate checks every obstacle in the zone. It must run after this tick's
// movement and reads the live player height, so any frame advanced before
// the tick is taken into account.
func (e *Evaluator) Evaluate(s *Session) Outcome {
	var out Outcome
	grounded := e.Grounded(s.Player)

	for i := range s.Obstacles {
		o := &s.Obstacles[i]
		if !e.InZone(o.X) {
			continue
		}
		if grounded {
			s.Over = true
			out.Collision = true
			continue
		}
		if !o.Scored {
			o.Scored = true
			s.Score += e.cfg.Reward
			s.Cleared++
			out.Scored++
		}
	}

	return out
}
