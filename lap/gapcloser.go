package lap

import (
	stderrors "errors"

	"gonum.org/v1/gonum/mat"
)

// CloseMergeSplit runs the global gap-closing pass over the fully relinked
// table: every segment's end is offered to every later segment's start in
// one assignment problem, and matched segments are merged under a single
// label. The pass runs in gap-closing-only mode; it does not attempt
// merge/split logic beyond endpoint stitching.
//
// The cost matrix used is returned for diagnostics. On an infeasible
// assignment the labeling is left unchanged and a warning is emitted.
func (tr *Tracker) CloseMergeSplit() (*mat.Dense, error) {
	segs := tr.segmentEndpoints()
	if len(segs) < 2 {
		return nil, nil
	}

	lapmat := segmentCostMatrix(segs, tr.cfg.MaxDisp, tr.cfg.WindowGap, tr.dist)
	rows, cols, costs := sparseCosts(lapmat)
	n, _ := lapmat.Dims()
	_, colToRow, err := solveAssignment(rows, cols, costs, n)
	if err != nil {
		if stderrors.Is(err, ErrInfeasibleAssignment) {
			tr.log.Warn("lap: infeasible gap-closing assignment, labels unchanged",
				"segments", len(segs))
			return lapmat, nil
		}
		return lapmat, err
	}

	// Merge matched endpoint pairs with a union-find over segment indices,
	// so chains collapse fully regardless of how the input table was
	// labeled. Every merged component keeps the lowest label it contains;
	// a segment whose stitching partner index falls outside the real
	// segment range is a true birth and keeps its own label.
	numSegs := len(segs)
	parent := make([]int, numSegs)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for j := 0; j < numSegs; j++ {
		if r := colToRow[j]; r < numSegs {
			parent[find(j)] = find(r)
		}
	}
	component := make(map[int]int64, numSegs)
	for i, seg := range segs {
		root := find(i)
		if label, ok := component[root]; !ok || seg.label < label {
			component[root] = seg.label
		}
	}
	newLabels := make(map[int64]int64, numSegs)
	for i, seg := range segs {
		newLabels[seg.label] = component[find(i)]
	}

	merged := 0
	tr.table.BeginRelink()
	for i, row := range tr.table.Rows() {
		newLabel := newLabels[row.Label]
		if newLabel != row.Label {
			merged++
		}
		tr.table.SetWorkingLabel(i, newLabel)
	}
	tr.table.Commit()
	if merged > 0 {
		tr.log.Debug("lap: closed gaps", "relabeled_detections", merged)
	}
	return lapmat, nil
}

// segmentEndpoints reduces every segment of the current labeling to its
// endpoint data. When the intensity column is absent a uniform placeholder
// is substituted so all segments stay comparable.
func (tr *Tracker) segmentEndpoints() []segmentEndpoints {
	d := tr.cfg.NDims
	segs := make([]segmentEndpoints, 0)
	for label, seg := range tr.table.Segments() {
		first := seg[0]
		last := seg[len(seg)-1]
		startI, endI := 1.0, 1.0
		if tr.table.HasIntensity() {
			startI, endI = first.Intensity, last.Intensity
		}
		segs = append(segs, segmentEndpoints{
			label:  label,
			startT: first.Time,
			endT:   last.Time,
			start:  first.Coords(d),
			end:    last.Coords(d),
			startI: startI,
			endI:   endI,
		})
	}
	return segs
}
