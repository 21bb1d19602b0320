// Package gesture connects an external hand detector to the game.
//
// Detectors and video sources are external collaborators: this package only
// defines their contracts, turns raw detections into presence events, and
// runs the Bridge that polls them.
package gesture

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/vovakirdan/gesture-runner/internal/config"
)

var (
	// ErrNotReady means the model is still loading or the video is not
	// streaming yet. The bridge retries on the next frame.
	ErrNotReady = errors.New("gesture: input not ready")

	// ErrAcquisition means the camera or model cannot be acquired. The bridge
	// reports it once and stops until restarted.
	ErrAcquisition = errors.New("gesture: input acquisition failed")
)

// Options are the detector load options.
type Options struct {
	FlipHorizontal      bool
	MaxDetections       int     // 0 = no cap
	ConfidenceThreshold float64 // Detections scoring below are ignored
	Source              string  // Detector-specific source, e.g. a script path
	FrameInterval       time.Duration
}

// OptionsFromConfig builds load options from the detector config.
func OptionsFromConfig(cfg config.Detector) Options {
	return Options{
		FlipHorizontal:      cfg.FlipHorizontal,
		MaxDetections:       cfg.MaxDetections,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		Source:              cfg.Source,
		FrameInterval:       cfg.FrameInterval(),
	}
}

// Frame is an opaque video frame handle passed from the source to the detector.
type Frame struct {
	Seq    uint64
	Width  int
	Height int
	At     time.Time
	Data   []byte
}

// Box is a bounding region in frame pixels.
type Box struct {
	X, Y, W, H float64
}

// Detection is one raw detector result.
type Detection struct {
	Label string
	Score float64
	Box   Box
}

// Event is the presence signal derived from one detection call. Boxes are
// only of interest to overlays; the game reads Present.
type Event struct {
	Present bool
	Boxes   []Box
}

// Detector runs hand detection on a frame. Detect may block for as long as
// the model needs and must return promptly once ctx is cancelled.
type Detector interface {
	Detect(ctx context.Context, frame Frame) ([]Detection, error)
	Close() error
}

// Loader loads a detector. It may return ErrNotReady while a model is still
// warming up.
type Loader func(ctx context.Context, opts Options) (Detector, error)

// VideoSource yields live frames. It returns ErrNotReady until streaming.
type VideoSource interface {
	Frame(ctx context.Context) (Frame, error)
}

// Presser is implemented by stand-in detectors that are driven by the user
// pressing a key instead of showing a hand.
type Presser interface {
	Press()
}

// NewEvent applies the load options to raw detections: drop those below the
// confidence threshold, keep the best MaxDetections, and mirror boxes when
// FlipHorizontal is set.
func NewEvent(dets []Detection, frameWidth int, opts Options) Event {
	kept := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Score >= opts.ConfidenceThreshold {
			kept = append(kept, d)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if opts.MaxDetections > 0 && len(kept) > opts.MaxDetections {
		kept = kept[:opts.MaxDetections]
	}

	ev := Event{Present: len(kept) > 0}
	for _, d := range kept {
		b := d.Box
		if opts.FlipHorizontal {
			b.X = float64(frameWidth) - b.X - b.W
		}
		ev.Boxes = append(ev.Boxes, b)
	}
	return ev
}

// sleep waits for d or until ctx is done. It reports whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
