package runner

import (
	"math"

	"github.com/vovakirdan/gesture-runner/internal/config"
)

// JumpController owns the player's fixed-step jump state machine:
// Idle -> Ascending -> Descending -> Idle. Steps are per frame, not per
// elapsed time, so every jump takes the same number of frames.
type JumpController struct {
	cfg config.Physics
}

// NewJumpController creates a jump controller.
func NewJumpController(cfg config.Physics) *JumpController {
	return &JumpController{cfg: cfg}
}

// Trigger starts a jump. It is a no-op returning false unless the player is
// Idle and the session is still running.
func (jc *JumpController) Trigger(s *Session) bool {
	if s.Over || s.Player.Phase != PhaseIdle {
		return false
	}
	s.Player.Phase = PhaseAscending
	s.Jumps++
	return true
}

// Advance applies one frame of the jump. It returns true while the jump is
// still in flight and false once the player is Idle again, at which point
// the caller stops scheduling frames.
func (jc *JumpController) Advance(s *Session) bool {
	p := &s.Player

	switch p.Phase {
	case PhaseIdle:
		return false

	case PhaseAscending:
		p.Height += jc.cfg.RiseStep
		if p.Height >= jc.cfg.PeakHeight {
			p.Height = jc.cfg.PeakHeight
			p.Phase = PhaseDescending
		}

	case PhaseDescending:
		p.Height -= jc.cfg.FallStep
		if p.Height <= 0 {
			p.Height = 0
			p.Phase = PhaseIdle
		}
	}

	s.Frames++
	return p.Phase != PhaseIdle
}

// FramesPerJump returns the exact number of Advance calls from Trigger back
// to Idle.
func (jc *JumpController) FramesPerJump() int {
	up := int(math.Ceil(jc.cfg.PeakHeight / jc.cfg.RiseStep))
	down := int(math.Ceil(jc.cfg.PeakHeight / jc.cfg.FallStep))
	return up + down
}
