package registry

import (
	"context"
	"testing"

	"github.com/vovakirdan/gesture-runner/internal/gesture"
)

func nopLoader(context.Context, gesture.Options) (gesture.Detector, error) {
	return nil, gesture.ErrNotReady
}

func TestRegisterAndLookup(t *testing.T) {
	Register("test-b", "B", nopLoader)
	Register("test-a", "A", nopLoader)

	if !Exists("test-a") {
		t.Error("Exists(test-a) = false")
	}
	if Exists("test-missing") {
		t.Error("Exists(test-missing) = true")
	}

	if _, err := Lookup("test-a"); err != nil {
		t.Errorf("Lookup(test-a) failed: %v", err)
	}
	if _, err := Lookup("test-missing"); err == nil {
		t.Error("Lookup(test-missing) should fail")
	}

	list := List()
	ia, ib := -1, -1
	for i, d := range list {
		switch d.Name {
		case "test-a":
			ia = i
			if d.Title != "A" {
				t.Errorf("title = %q, want A", d.Title)
			}
		case "test-b":
			ib = i
		}
	}
	if ia < 0 || ib < 0 || ia > ib {
		t.Errorf("List() not sorted or missing entries: %+v", list)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", "Dup", nopLoader)
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("test-dup", "Dup", nopLoader)
}
