package runner

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/gesture-runner/internal/config"
)

// ObstacleManager moves, prunes and spawns obstacles.
type ObstacleManager struct {
	cfg config.Obstacles
	rng *rand.Rand
}

// NewObstacleManager creates a new obstacle manager with the given RNG seed.
func NewObstacleManager(cfg config.Obstacles, seed int64) *ObstacleManager {
	return &ObstacleManager{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Reseed resets the RNG.
func (om *ObstacleManager) Reseed(seed int64) {
	om.rng = rand.New(rand.NewSource(seed))
}

// Move shifts every obstacle left by one tick step and drops the ones that
// crossed the off-screen threshold, keeping creation order.
func (om *ObstacleManager) Move(s *Session) {
	for i := range s.Obstacles {
		s.Obstacles[i].X -= om.cfg.TickStep
	}

	valid := s.Obstacles[:0]
	for _, o := range s.Obstacles {
		if o.X > om.cfg.OffscreenX {
			valid = append(valid, o)
		}
	}
	s.Obstacles = valid
}

// MaybeSpawn appends an obstacle at the spawn edge once more than the current
// gap has elapsed since the last spawn. The gap is re-rolled only on spawn.
func (om *ObstacleManager) MaybeSpawn(s *Session, now time.Time) bool {
	if now.Sub(s.LastSpawnAt) <= s.NextSpawnGap {
		return false
	}
	om.spawn(s, now)
	return true
}

// spawn appends an obstacle and starts a new gap interval.
func (om *ObstacleManager) spawn(s *Session, now time.Time) {
	s.nextID++
	s.Obstacles = append(s.Obstacles, Obstacle{ID: s.nextID, X: om.cfg.SpawnX})
	s.LastSpawnAt = now
	s.NextSpawnGap = om.DrawGap()
}

// DrawGap returns a spawn gap uniformly distributed over [MinGap, MaxGap]
// at millisecond resolution.
func (om *ObstacleManager) DrawGap() time.Duration {
	lo, hi := om.cfg.MinGapMs, om.cfg.MaxGapMs
	ms := lo
	if hi > lo {
		ms = lo + om.rng.Intn(hi-lo+1)
	}
	return time.Duration(ms) * time.Millisecond
}
