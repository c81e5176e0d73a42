package lap

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLinkCostMatrixGating(t *testing.T) {
	from := mat.NewDense(1, 2, []float64{0, 0})
	to := mat.NewDense(2, 2, []float64{0.1, 0, 10, 0})

	full := linkCostMatrix(from, to, 1.0, SquaredDiff)
	r, c := full.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("expected augmented 3x3 matrix, got %dx%d", r, c)
	}

	if math.Abs(full.At(0, 0)-0.01) > eps {
		t.Errorf("expected admissible link cost 0.01, got %v", full.At(0, 0))
	}
	if !math.IsInf(full.At(0, 1), 1) {
		t.Errorf("expected out-of-gate link to be infeasible, got %v", full.At(0, 1))
	}

	alt := alternativeCostFactor * 0.01
	if math.Abs(full.At(0, 2)-alt) > eps {
		t.Errorf("expected death alternative %v, got %v", alt, full.At(0, 2))
	}
	if math.Abs(full.At(1, 0)-alt) > eps {
		t.Errorf("expected birth alternative %v, got %v", alt, full.At(1, 0))
	}
	if math.Abs(full.At(2, 1)-alt) > eps {
		t.Errorf("expected birth alternative %v, got %v", alt, full.At(2, 1))
	}
	// Transposed link block keeps the matching balanced.
	if math.Abs(full.At(1, 2)-0.01) > eps {
		t.Errorf("expected transposed link cost 0.01, got %v", full.At(1, 2))
	}
}

func TestLinkCostMatrixNoAdmissibleLink(t *testing.T) {
	from := mat.NewDense(1, 2, []float64{0, 0})
	to := mat.NewDense(1, 2, []float64{100, 100})

	full := linkCostMatrix(from, to, 0.5, SquaredDiff)
	if !math.IsInf(full.At(0, 0), 1) {
		t.Errorf("expected infeasible link, got %v", full.At(0, 0))
	}
	// Birth and death alternatives must stay finite so the frame can
	// still be resolved as one death and one birth.
	if math.IsInf(full.At(0, 1), 1) || full.At(0, 1) <= 0 {
		t.Errorf("expected finite positive death alternative, got %v", full.At(0, 1))
	}
	if math.IsInf(full.At(1, 0), 1) || full.At(1, 0) <= 0 {
		t.Errorf("expected finite positive birth alternative, got %v", full.At(1, 0))
	}
}

func TestSegmentCostMatrixGating(t *testing.T) {
	segs := []segmentEndpoints{
		{label: 1, startT: 0, endT: 2, start: []float64{0, 0}, end: []float64{2, 0}, startI: 1, endI: 1},
		{label: 2, startT: 4, endT: 5, start: []float64{4, 0}, end: []float64{5, 0}, startI: 1, endI: 1},
		{label: 3, startT: 20, endT: 21, start: []float64{2.5, 0}, end: []float64{3, 0}, startI: 1, endI: 1},
	}

	full := segmentCostMatrix(segs, 3.0, 5.0, SquaredDiff)
	r, c := full.Dims()
	if r != 6 || c != 6 {
		t.Fatalf("expected augmented 6x6 matrix, got %dx%d", r, c)
	}

	// Segment 1 end (2,0) to segment 2 start (4,0): gap 2 frames,
	// displacement 2, both admissible.
	if math.Abs(full.At(0, 1)-4.0) > eps {
		t.Errorf("expected stitch cost 4.0, got %v", full.At(0, 1))
	}
	// Segment 3 starts 18 frames after segment 1 ends: inadmissible
	// irrespective of distance.
	if !math.IsInf(full.At(0, 2), 1) {
		t.Errorf("expected over-window stitch to be infeasible, got %v", full.At(0, 2))
	}
	// A segment can't stitch to itself.
	if !math.IsInf(full.At(0, 0), 1) {
		t.Errorf("expected self-stitch to be infeasible, got %v", full.At(0, 0))
	}
	// Time order matters: segment 2 can't feed back into segment 1.
	if !math.IsInf(full.At(1, 0), 1) {
		t.Errorf("expected backward stitch to be infeasible, got %v", full.At(1, 0))
	}
}

func TestSegmentCostMatrixIntensityRatio(t *testing.T) {
	segs := []segmentEndpoints{
		{label: 1, startT: 0, endT: 2, start: []float64{0, 0}, end: []float64{2, 0}, startI: 100, endI: 100},
		{label: 2, startT: 4, endT: 5, start: []float64{4, 0}, end: []float64{5, 0}, startI: 50, endI: 50},
	}

	full := segmentCostMatrix(segs, 3.0, 5.0, SquaredDiff)
	// Displacement cost 4.0 scaled by intensity ratio 100/50.
	if math.Abs(full.At(0, 1)-8.0) > eps {
		t.Errorf("expected intensity-scaled cost 8.0, got %v", full.At(0, 1))
	}
}
