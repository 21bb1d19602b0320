package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Physics: Physics{
			PeakHeight:      100,
			RiseStep:        5,
			FallStep:        3,
			GroundThreshold: 0,
		},
		Obstacles: Obstacles{
			SpawnX:     600,
			TickStep:   5,
			OffscreenX: -20,
			MinGapMs:   2000,
			MaxGapMs:   3500,
		},
		Scoring: Scoring{
			ZoneMin: 30,
			ZoneMax: 40,
			Reward:  5,
		},
		Timing: Timing{
			TickMs:  30,
			FrameMs: 20,
		},
		Detector: Detector{
			Name:                "keyboard",
			FlipHorizontal:      true,
			MaxDetections:       1,
			ConfidenceThreshold: 0.5,
			FrameMs:             16, // ~60 Hz, the browser's animation frame pace
			WarmupFrames:        6,

			MaxConsecutiveFailures: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
