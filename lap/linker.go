package lap

import (
	stderrors "errors"

	"gonum.org/v1/gonum/mat"
)

// linkStep relabels the detections at t1 consistently with the committed
// working labels at t0: build the gated cost matrix between the two frames,
// solve the assignment, copy labels along matched links and allocate fresh
// labels for births.
func (tr *Tracker) linkStep(t0, t1 float64) error {
	idx0 := tr.table.RowsAt(t0)
	idx1 := tr.table.RowsAt(t1)
	if len(idx0) == 0 || len(idx1) == 0 {
		return nil
	}

	to := tr.positionsAt(idx1)
	var from *mat.Dense
	if tr.cfg.Predict {
		from = tr.predictPositions(idx0, t0, t1)
	} else {
		from = tr.positionsAt(idx0)
	}

	// The admissible linking radius grows linearly with the elapsed time.
	lapmat := linkCostMatrix(from, to, tr.cfg.MaxDisp*(t1-t0), tr.dist)
	rows, cols, costs := sparseCosts(lapmat)
	n, _ := lapmat.Dims()
	_, colToRow, err := solveAssignment(rows, cols, costs, n)
	if err != nil {
		if stderrors.Is(err, ErrInfeasibleAssignment) {
			// Degraded fallback: give every detection of the frame a
			// fresh label, sacrificing continuity rather than aborting.
			tr.log.Warn("lap: infeasible assignment, relabeling frame as births",
				"t0", t0, "t1", t1, "detections", len(idx1))
			for _, i := range idx1 {
				tr.table.SetWorkingLabel(i, tr.gen.Next())
			}
			return nil
		}
		return err
	}

	n0 := len(idx0)
	for j, i := range idx1 {
		r := colToRow[j]
		if r >= n0 {
			tr.table.SetWorkingLabel(i, tr.gen.Next())
			continue
		}
		tr.table.SetWorkingLabel(i, tr.table.WorkingLabel(idx0[r]))
	}
	return nil
}

// positionsAt extracts the coordinate matrix of the given rows, one row per
// detection.
func (tr *Tracker) positionsAt(idx []int) *mat.Dense {
	d := tr.cfg.NDims
	m := mat.NewDense(len(idx), d, nil)
	for n, i := range idx {
		m.SetRow(n, tr.table.Rows()[i].Coords(d))
	}
	return m
}

// predictPositions returns the expected positions of the t0 detections at
// t1, falling back to raw positions when there is not enough history.
// A label needs at least three historical points ending exactly at t0 for
// its position to be extrapolated; anything less keeps the last known
// position. When t1 is among the first time points of the session there is
// no usable history at all and the raw frame is returned.
func (tr *Tracker) predictPositions(idx0 []int, t0, t1 float64) *mat.Dense {
	raw := tr.positionsAt(idx0)
	if tr.timeIndex(t1) < 3 {
		return raw
	}

	d := tr.cfg.NDims
	for n, i := range idx0 {
		label := tr.table.WorkingLabel(i)
		history := tr.table.segmentUpTo(label, t0)
		if len(history) < 3 || history[len(history)-1].Time != t0 {
			continue
		}
		times := make([]float64, len(history))
		for h, det := range history {
			times[h] = det.Time
		}
		for k := 0; k < d; k++ {
			values := make([]float64, len(history))
			for h, det := range history {
				values[h] = det.Coords(d)[k]
			}
			estimate, _, err := tr.predictor.Predict(times, values, t1)
			if err != nil {
				// Insufficient or degenerate history: keep the raw
				// coordinate.
				continue
			}
			raw.Set(n, k, estimate)
		}
	}
	return raw
}

func (tr *Tracker) timeIndex(tp float64) int {
	for i, t := range tr.table.Times() {
		if t == tp {
			return i
		}
	}
	return -1
}
