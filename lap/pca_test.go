package lap

import (
	"math"
	"testing"
)

func TestPCARotate(t *testing.T) {
	// Points on the diagonal: all variance lies along the first
	// principal axis, so the second rotated coordinate is constant.
	rows := []Detection{
		{Time: 0, Label: 1, X: 0, Y: 0},
		{Time: 1, Label: 1, X: 1, Y: 1},
		{Time: 2, Label: 1, X: 2, Y: 2},
		{Time: 3, Label: 1, X: 3, Y: 3},
	}
	cfg := DefaultConfig()
	cfg.NDims = 2

	tracker := newTestTracker(t, rows, cfg)
	rotated, err := tracker.PCARotate()
	if err != nil {
		t.Fatal(err)
	}

	r, c := rotated.Dims()
	if r != 4 || c != 2 {
		t.Fatalf("expected a 4x2 rotated matrix, got %dx%d", r, c)
	}
	for i := 1; i < r; i++ {
		if math.Abs(rotated.At(i, 1)-rotated.At(0, 1)) > eps {
			t.Errorf("expected constant second component, got %v and %v", rotated.At(0, 1), rotated.At(i, 1))
		}
	}
}

func TestPCARotateEmptyTable(t *testing.T) {
	table, err := NewTable(nil, false)
	if err != nil {
		t.Fatal(err)
	}
	tracker, err := New(table, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tracker.PCARotate(); err == nil {
		t.Fatal("expected error for empty table")
	}
}
