// Package keyboard provides a stand-in hand detector driven by key presses.
// Each Press counts as a hand seen by the next detection call.
package keyboard

import (
	"context"
	"time"

	"github.com/vovakirdan/gesture-runner/internal/gesture"
	"github.com/vovakirdan/gesture-runner/internal/registry"
)

// Name is the registry name of this detector.
const Name = "keyboard"

// Detector reports a hand whenever a key was pressed since the last call.
type Detector struct {
	pressed chan struct{}
	pace    time.Duration
}

// New creates a keyboard detector. pace is how long Detect waits for a press
// before reporting an empty frame, standing in for model latency.
func New(pace time.Duration) *Detector {
	if pace <= 0 {
		pace = 16 * time.Millisecond
	}
	return &Detector{
		pressed: make(chan struct{}, 1),
		pace:    pace,
	}
}

// Load implements gesture.Loader.
func Load(_ context.Context, opts gesture.Options) (gesture.Detector, error) {
	return New(opts.FrameInterval), nil
}

// Press marks a hand as visible. Presses between two detections collapse
// into one.
func (d *Detector) Press() {
	select {
	case d.pressed <- struct{}{}:
	default:
	}
}

// Detect waits up to one pace interval for a press.
func (d *Detector) Detect(ctx context.Context, frame gesture.Frame) ([]gesture.Detection, error) {
	t := time.NewTimer(d.pace)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.pressed:
		return []gesture.Detection{{
			Label: "hand",
			Score: 1,
			Box: gesture.Box{
				X: float64(frame.Width) / 4,
				Y: float64(frame.Height) / 4,
				W: float64(frame.Width) / 2,
				H: float64(frame.Height) / 2,
			},
		}}, nil
	case <-t.C:
		return nil, nil
	}
}

// Close implements gesture.Detector.
func (d *Detector) Close() error {
	return nil
}

func init() {
	registry.Register(Name, "Keyboard (space bar stands in for a hand)", Load)
}
