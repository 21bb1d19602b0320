package gesture

import (
	"context"
	"errors"
	"testing"
)

func TestNewEvent(t *testing.T) {
	dets := []Detection{
		{Label: "hand", Score: 0.4, Box: Box{X: 0, W: 10}},
		{Label: "hand", Score: 0.7, Box: Box{X: 10, W: 20}},
		{Label: "hand", Score: 0.9, Box: Box{X: 50, W: 30}},
	}

	tests := []struct {
		name    string
		opts    Options
		present bool
		xs      []float64
	}{
		{"threshold", Options{ConfidenceThreshold: 0.5}, true, []float64{50, 10}},
		{"cap", Options{ConfidenceThreshold: 0.5, MaxDetections: 1}, true, []float64{50}},
		{"flip", Options{ConfidenceThreshold: 0.5, MaxDetections: 1, FlipHorizontal: true}, true, []float64{20}},
		{"all below", Options{ConfidenceThreshold: 0.95}, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvent(dets, 100, tt.opts)
			if ev.Present != tt.present {
				t.Fatalf("Present = %v, want %v", ev.Present, tt.present)
			}
			if len(ev.Boxes) != len(tt.xs) {
				t.Fatalf("got %d boxes, want %d", len(ev.Boxes), len(tt.xs))
			}
			for i, x := range tt.xs {
				if ev.Boxes[i].X != x {
					t.Errorf("box %d X = %v, want %v", i, ev.Boxes[i].X, x)
				}
			}
		})
	}
}

func TestNewEventEmpty(t *testing.T) {
	if ev := NewEvent(nil, 640, Options{}); ev.Present {
		t.Error("no detections should not be present")
	}
}

func TestSyntheticSource(t *testing.T) {
	src := NewSyntheticSource(640, 480, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := src.Frame(ctx); !errors.Is(err, ErrNotReady) {
			t.Fatalf("warmup frame %d error = %v, want ErrNotReady", i, err)
		}
	}

	f, err := src.Frame(ctx)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if f.Seq != 1 || f.Width != 640 || f.Height != 480 {
		t.Errorf("frame = %+v, want seq 1 640x480", f)
	}

	src.Stop("unplugged")
	if _, err := src.Frame(ctx); !errors.Is(err, ErrAcquisition) {
		t.Errorf("error after Stop = %v, want ErrAcquisition", err)
	}
}
