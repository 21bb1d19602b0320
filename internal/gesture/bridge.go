package gesture

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultMaxConsecutiveFailures is about half a second of failed frames at
// the default detector pace.
const DefaultMaxConsecutiveFailures = 30

// BridgeConfig configures a Bridge.
type BridgeConfig struct {
	Load    Loader
	Options Options
	Source  VideoSource

	// OnPresence is called from the bridge goroutine for every event with a
	// hand present. It must not block; hosts post the jump onto their
	// scheduler.
	OnPresence func(Event)

	// Retry is how long to back off while input is not ready.
	Retry time.Duration

	// MaxConsecutiveFailures escalates a run of swallowed detection errors to
	// an acquisition failure. 0 means DefaultMaxConsecutiveFailures; a
	// negative value never escalates.
	MaxConsecutiveFailures int

	Logger *log.Logger
}

// Stats counts bridge activity.
type Stats struct {
	Detections uint64 // Successful detection calls
	Presences  uint64 // Calls that saw a hand
	Failures   uint64 // Swallowed detection errors
	Retries    uint64 // Back-offs while input was not ready
}

// Bridge polls a detector in an unbounded loop and forwards presence.
type Bridge struct {
	cfg      BridgeConfig
	logger   *log.Logger
	detector atomic.Pointer[detectorBox]

	detections atomic.Uint64
	presences  atomic.Uint64
	failures   atomic.Uint64
	retries    atomic.Uint64
}

type detectorBox struct {
	Detector
}

// NewBridge creates a bridge. Run starts it.
func NewBridge(cfg BridgeConfig) *Bridge {
	if cfg.Retry <= 0 {
		cfg.Retry = 16 * time.Millisecond
	}
	if cfg.MaxConsecutiveFailures == 0 {
		cfg.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Bridge{
		cfg:    cfg,
		logger: logger.WithPrefix("bridge"),
	}
}

// Run loads the detector and polls it until ctx is cancelled, which returns
// nil after the in-flight detection completes. A persistent acquisition
// failure is logged, returned once wrapped around ErrAcquisition, and ends
// the loop.
func (b *Bridge) Run(ctx context.Context) error {
	det, err := b.loadDetector(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		b.logger.Error("detector unavailable", "error", err)
		return err
	}
	b.detector.Store(&detectorBox{det})
	defer func() {
		b.detector.Store(nil)
		if cerr := det.Close(); cerr != nil {
			b.logger.Warn("closing detector", "error", cerr)
		}
	}()

	b.logger.Info("detection started")
	consecutive := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		err := b.detectOnce(ctx, det)
		switch {
		case err == nil:
			consecutive = 0

		case ctx.Err() != nil:
			return nil

		case errors.Is(err, ErrNotReady):
			b.retries.Add(1)
			if !sleep(ctx, b.cfg.Retry) {
				return nil
			}

		case errors.Is(err, ErrAcquisition):
			b.logger.Error("input lost", "error", err)
			return err

		default:
			b.failures.Add(1)
			consecutive++
			b.logger.Debug("detection failed", "error", err, "consecutive", consecutive)
			if limit := b.cfg.MaxConsecutiveFailures; limit > 0 && consecutive >= limit {
				err = fmt.Errorf("%w: %d consecutive detection failures: %w", ErrAcquisition, consecutive, err)
				b.logger.Error("input lost", "error", err)
				return err
			}
			if !sleep(ctx, b.cfg.Retry) {
				return nil
			}
		}
	}
}

// detectOnce grabs one frame and runs one detection on it.
func (b *Bridge) detectOnce(ctx context.Context, det Detector) error {
	frame, err := b.cfg.Source.Frame(ctx)
	if err != nil {
		return err
	}

	dets, err := det.Detect(ctx, frame)
	if err != nil {
		return err
	}
	b.detections.Add(1)

	ev := NewEvent(dets, frame.Width, b.cfg.Options)
	if ev.Present {
		b.presences.Add(1)
		if b.cfg.OnPresence != nil {
			b.cfg.OnPresence(ev)
		}
	}
	return nil
}

// loadDetector loads the detector, retrying every Retry while it reports
// ErrNotReady.
func (b *Bridge) loadDetector(ctx context.Context) (Detector, error) {
	for {
		det, err := b.cfg.Load(ctx, b.cfg.Options)
		if err == nil {
			return det, nil
		}
		if !errors.Is(err, ErrNotReady) {
			if errors.Is(err, ErrAcquisition) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: load detector: %w", ErrAcquisition, err)
		}

		b.retries.Add(1)
		if !sleep(ctx, b.cfg.Retry) {
			return nil, ctx.Err()
		}
	}
}

// Detector returns the loaded detector, or nil before loading and after Run returns.
func (b *Bridge) Detector() Detector {
	if box := b.detector.Load(); box != nil {
		return box.Detector
	}
	return nil
}

// Stats returns a snapshot of the bridge counters.
func (b *Bridge) Stats() Stats {
	return Stats{
		Detections: b.detections.Load(),
		Presences:  b.presences.Load(),
		Failures:   b.failures.Load(),
		Retries:    b.retries.Load(),
	}
}
