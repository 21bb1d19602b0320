// Package config provides YAML-based configuration loading for the runner
// engine and its gesture detector.
package config

import (
	"errors"
	"fmt"
	"time"
)

// RunnerConfig contains all configuration for the gesture runner.
type RunnerConfig struct {
	Physics   Physics   `yaml:"physics"`
	Obstacles Obstacles `yaml:"obstacles"`
	Scoring   Scoring   `yaml:"scoring"`
	Timing    Timing    `yaml:"timing"`
	Detector  Detector  `yaml:"detector"`
}

// Physics defines the fixed-step jump parameters.
type Physics struct {
	PeakHeight      float64 `yaml:"peak_height"`      // Jump apex above the baseline
	RiseStep        float64 `yaml:"rise_step"`        // Height gained per frame while ascending
	FallStep        float64 `yaml:"fall_step"`        // Height lost per frame while descending
	GroundThreshold float64 `yaml:"ground_threshold"` // Heights at or below this count as grounded
}

// Obstacles defines obstacle movement and spawn pacing.
type Obstacles struct {
	SpawnX     float64 `yaml:"spawn_x"`     // Horizontal spawn edge
	TickStep   float64 `yaml:"tick_step"`   // Leftward movement per tick
	OffscreenX float64 `yaml:"offscreen_x"` // Obstacles at or below this X are dropped
	MinGapMs   int     `yaml:"min_gap_ms"`  // Lower bound of the randomized spawn gap
	MaxGapMs   int     `yaml:"max_gap_ms"`  // Upper bound of the randomized spawn gap
}

// Scoring defines the judgment zone and reward.
type Scoring struct {
	ZoneMin float64 `yaml:"zone_min"` // Inclusive left edge of the judgment zone
	ZoneMax float64 `yaml:"zone_max"` // Inclusive right edge of the judgment zone
	Reward  int     `yaml:"reward"`   // Points per cleared obstacle
}

// Timing defines the periods of the two periodic activities.
type Timing struct {
	TickMs  int `yaml:"tick_ms"`  // Obstacle tick period
	FrameMs int `yaml:"frame_ms"` // Jump frame-advance period
}

// Detector configures the gesture detector and the bridge polling it.
type Detector struct {
	Name                   string  `yaml:"name"` // Registered detector name ("keyboard", "script")
	FlipHorizontal         bool    `yaml:"flip_horizontal"`
	MaxDetections          int     `yaml:"max_detections"`
	ConfidenceThreshold    float64 `yaml:"confidence_threshold"`
	Source                 string  `yaml:"source"`                   // Detector-specific source, e.g. a script path
	FrameMs                int     `yaml:"frame_ms"`                 // Retry/back-off interval when input is not ready
	WarmupFrames           int     `yaml:"warmup_frames"`            // Frames before the synthetic video source is ready
	MaxConsecutiveFailures int     `yaml:"max_consecutive_failures"` // 0 = bridge default, <0 = never escalate
}

// MinGap returns the lower spawn gap bound as a duration.
func (o Obstacles) MinGap() time.Duration {
	return time.Duration(o.MinGapMs) * time.Millisecond
}

// MaxGap returns the upper spawn gap bound as a duration.
func (o Obstacles) MaxGap() time.Duration {
	return time.Duration(o.MaxGapMs) * time.Millisecond
}

// TickInterval returns the tick period.
func (t Timing) TickInterval() time.Duration {
	return time.Duration(t.TickMs) * time.Millisecond
}

// FrameInterval returns the jump frame period.
func (t Timing) FrameInterval() time.Duration {
	return time.Duration(t.FrameMs) * time.Millisecond
}

// FrameInterval returns the bridge retry interval.
func (d Detector) FrameInterval() time.Duration {
	return time.Duration(d.FrameMs) * time.Millisecond
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Validate checks the configuration for values the engine cannot run with.
func (c RunnerConfig) Validate() error {
	switch {
	case c.Physics.PeakHeight <= 0:
		return fmt.Errorf("%w: physics.peak_height must be positive", ErrInvalid)
	case c.Physics.RiseStep <= 0 || c.Physics.FallStep <= 0:
		return fmt.Errorf("%w: physics rise_step and fall_step must be positive", ErrInvalid)
	case c.Physics.GroundThreshold < 0 || c.Physics.GroundThreshold >= c.Physics.PeakHeight:
		return fmt.Errorf("%w: physics.ground_threshold must be in [0, peak_height)", ErrInvalid)
	case c.Obstacles.TickStep <= 0:
		return fmt.Errorf("%w: obstacles.tick_step must be positive", ErrInvalid)
	case c.Obstacles.OffscreenX >= c.Obstacles.SpawnX:
		return fmt.Errorf("%w: obstacles.offscreen_x must be left of spawn_x", ErrInvalid)
	case c.Obstacles.MinGapMs < 0 || c.Obstacles.MinGapMs > c.Obstacles.MaxGapMs:
		return fmt.Errorf("%w: obstacles gap range [%d, %d] ms", ErrInvalid, c.Obstacles.MinGapMs, c.Obstacles.MaxGapMs)
	case c.Scoring.ZoneMin > c.Scoring.ZoneMax:
		return fmt.Errorf("%w: scoring zone [%g, %g]", ErrInvalid, c.Scoring.ZoneMin, c.Scoring.ZoneMax)
	case c.Scoring.Reward <= 0:
		return fmt.Errorf("%w: scoring.reward must be positive", ErrInvalid)
	case c.Timing.TickMs <= 0 || c.Timing.FrameMs <= 0:
		return fmt.Errorf("%w: timing periods must be positive", ErrInvalid)
	case c.Detector.MaxDetections < 0:
		return fmt.Errorf("%w: detector.max_detections must not be negative", ErrInvalid)
	case c.Detector.ConfidenceThreshold < 0 || c.Detector.ConfidenceThreshold > 1:
		return fmt.Errorf("%w: detector.confidence_threshold must be in [0, 1]", ErrInvalid)
	case c.Detector.FrameMs <= 0:
		return fmt.Errorf("%w: detector.frame_ms must be positive", ErrInvalid)
	}
	return nil
}
