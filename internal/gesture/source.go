package gesture

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SyntheticSource stands in for a camera. It reports ErrNotReady for the
// first warmup frames, then yields numbered empty frames until stopped.
type SyntheticSource struct {
	width, height int
	warmup        uint64

	mu      sync.Mutex
	seq     uint64
	stopErr error
}

// NewSyntheticSource creates a source of the given frame size.
func NewSyntheticSource(width, height, warmupFrames int) *SyntheticSource {
	return &SyntheticSource{
		width:  width,
		height: height,
		warmup: uint64(max(warmupFrames, 0)),
	}
}

// Frame returns the next frame.
func (s *SyntheticSource) Frame(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopErr != nil {
		return Frame{}, s.stopErr
	}

	s.seq++
	if s.seq <= s.warmup {
		return Frame{}, ErrNotReady
	}
	return Frame{
		Seq:    s.seq - s.warmup,
		Width:  s.width,
		Height: s.height,
		At:     time.Now(),
	}, nil
}

// Stop makes every later Frame call fail with ErrAcquisition, as if the
// camera was unplugged.
func (s *SyntheticSource) Stop(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopErr = fmt.Errorf("%w: video source stopped: %s", ErrAcquisition, reason)
}
