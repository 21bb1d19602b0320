// Package script provides a detector that replays a presence pattern read
// from a YAML file. It is used for headless runs and for exercising the
// bridge without a camera.
//
// Example:
//
//	pattern: "....................#"
//	loop: true
//	pace_ms: 16
//	fail_at: [3]
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gesture-runner/internal/config"
	"github.com/vovakirdan/gesture-runner/internal/gesture"
	"github.com/vovakirdan/gesture-runner/internal/registry"
)

// Name is the registry name of this detector.
const Name = "script"

// ErrScripted is returned by Detect on the calls listed in fail_at.
var ErrScripted = errors.New("script: scripted detection failure")

// Script describes which detection calls see a hand.
//
// Either Pattern or Every must be set. In Pattern, '#' or 'x' marks a call
// with a hand and any other character an empty one. Every/Offset mark calls
// Offset, Offset+Every, Offset+2*Every and so on.
type Script struct {
	Pattern string  `yaml:"pattern"`
	Every   int     `yaml:"every"`
	Offset  int     `yaml:"offset"`
	Loop    bool    `yaml:"loop"`
	PaceMS  int     `yaml:"pace_ms"`
	Score   float64 `yaml:"score"`
	FailAt  []int   `yaml:"fail_at"`
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: parse: %w", err)
	}
	if s.Score == 0 {
		s.Score = 1
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the script for consistency.
func (s *Script) Validate() error {
	switch {
	case s.Pattern == "" && s.Every <= 0:
		return errors.New("script: pattern or every is required")
	case s.Pattern != "" && s.Every > 0:
		return errors.New("script: pattern and every are exclusive")
	case s.Offset < 0:
		return fmt.Errorf("script: offset %d is negative", s.Offset)
	case s.PaceMS < 0:
		return fmt.Errorf("script: pace_ms %d is negative", s.PaceMS)
	case s.Score < 0 || s.Score > 1:
		return fmt.Errorf("script: score %v outside [0, 1]", s.Score)
	}
	return nil
}

// Every returns a script that shows a hand on every n-th call.
func Every(n, offset int) *Script {
	return &Script{Every: n, Offset: offset, Score: 1}
}

// Present reports whether call i (counting from 0) sees a hand.
func (s *Script) Present(i int) bool {
	if i < 0 {
		return false
	}
	if s.Every > 0 {
		return i >= s.Offset && (i-s.Offset)%s.Every == 0
	}

	n := len(s.Pattern)
	if i >= n {
		if !s.Loop {
			return false
		}
		i %= n
	}
	c := s.Pattern[i]
	return c == '#' || c == 'x' || c == 'X'
}

// ReadFile loads a script from disk. A leading ~ is expanded.
func ReadFile(path string) (*Script, error) {
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return Parse(data)
}

// Detector replays a Script.
type Detector struct {
	script *Script
	pace   time.Duration
	fail   map[int]bool

	mu    sync.Mutex
	calls int
}

// New creates a detector for s. A zero pace falls back to the script's
// pace_ms; if both are zero Detect returns without waiting.
func New(s *Script, pace time.Duration) *Detector {
	if s.PaceMS > 0 {
		pace = time.Duration(s.PaceMS) * time.Millisecond
	}
	fail := make(map[int]bool, len(s.FailAt))
	for _, i := range s.FailAt {
		fail[i] = true
	}
	return &Detector{script: s, pace: pace, fail: fail}
}

// Load implements gesture.Loader. opts.Source names the script file.
func Load(_ context.Context, opts gesture.Options) (gesture.Detector, error) {
	if strings.TrimSpace(opts.Source) == "" {
		return nil, errors.New("script: detector source is empty")
	}
	s, err := ReadFile(opts.Source)
	if err != nil {
		return nil, err
	}
	return New(s, opts.FrameInterval), nil
}

// Detect waits one pace interval and reports the scripted result.
func (d *Detector) Detect(ctx context.Context, frame gesture.Frame) ([]gesture.Detection, error) {
	if d.pace > 0 {
		t := time.NewTimer(d.pace)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	d.mu.Lock()
	i := d.calls
	d.calls++
	d.mu.Unlock()

	if d.fail[i] {
		return nil, fmt.Errorf("%w (call %d)", ErrScripted, i)
	}
	if !d.script.Present(i) {
		return nil, nil
	}
	return []gesture.Detection{{
		Label: "hand",
		Score: d.script.Score,
		Box:   gesture.Box{W: float64(frame.Width) / 3, H: float64(frame.Height) / 3},
	}}, nil
}

// Calls returns how many detections ran.
func (d *Detector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Close implements gesture.Detector.
func (d *Detector) Close() error {
	return nil
}

func init() {
	registry.Register(Name, "Scripted presence pattern (YAML file)", Load)
}
