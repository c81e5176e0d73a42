package lap

import (
	"iter"
	"sort"

	"github.com/pkg/errors"
)

// Table is the in-memory store of all detections for one tracking session.
// Rows are kept sorted by (time, label). During relinking a parallel working
// label column is active; it is promoted to the primary label on Commit.
//
// The table is owned exclusively by the tracking session: exactly one writer
// may mutate it at a time, and each linking step observes the fully
// committed result of the previous one.
type Table struct {
	rows         []Detection
	working      []int64
	relinking    bool
	hasIntensity bool
}

// NewTable creates a table from detector output. Rows are sorted by
// (time, label); a duplicate (time, label) pair is a construction-time
// error. hasIntensity declares whether the Intensity column carries real
// measurements.
func NewTable(rows []Detection, hasIntensity bool) (*Table, error) {
	t := &Table{
		rows:         append([]Detection(nil), rows...),
		hasIntensity: hasIntensity,
	}
	t.sortRows()
	for i := 1; i < len(t.rows); i++ {
		if t.rows[i].Time == t.rows[i-1].Time && t.rows[i].Label == t.rows[i-1].Label {
			return nil, errors.Errorf("duplicate detection at t=%v label=%d", t.rows[i].Time, t.rows[i].Label)
		}
	}
	return t, nil
}

func (t *Table) sortRows() {
	sort.SliceStable(t.rows, func(i, j int) bool {
		if t.rows[i].Time != t.rows[j].Time {
			return t.rows[i].Time < t.rows[j].Time
		}
		return t.rows[i].Label < t.rows[j].Label
	})
}

// Len returns the number of detections.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the table's detections ordered by (time, label).
// Be careful: this is not a copy of the rows, but a reference to them.
func (t *Table) Rows() []Detection {
	return t.rows
}

// HasIntensity reports whether the intensity column carries real values.
func (t *Table) HasIntensity() bool {
	return t.hasIntensity
}

// Times returns the unique time points in increasing order.
func (t *Table) Times() []float64 {
	times := make([]float64, 0)
	for _, r := range t.rows {
		if len(times) == 0 || times[len(times)-1] != r.Time {
			times = append(times, r.Time)
		}
	}
	return times
}

// Labels returns the unique labels of the current labeling in increasing
// order.
func (t *Table) Labels() []int64 {
	seen := make(map[int64]struct{}, len(t.rows))
	labels := make([]int64, 0)
	for _, r := range t.rows {
		if _, ok := seen[r.Label]; !ok {
			seen[r.Label] = struct{}{}
			labels = append(labels, r.Label)
		}
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// MaxLabel returns the largest label currently in use, or 0 for an empty
// table.
func (t *Table) MaxLabel() int64 {
	var max int64
	for _, r := range t.rows {
		if r.Label > max {
			max = r.Label
		}
	}
	return max
}

// RowsAt returns the indices of all detections at time tp, ordered by label.
func (t *Table) RowsAt(tp float64) []int {
	idx := make([]int, 0)
	for i, r := range t.rows {
		if r.Time == tp {
			idx = append(idx, i)
		}
	}
	return idx
}

// Segment returns all detections carrying the given label, ordered by time.
func (t *Table) Segment(label int64) []Detection {
	seg := make([]Detection, 0)
	for _, r := range t.rows {
		if r.Label == label {
			seg = append(seg, r)
		}
	}
	return seg
}

// Segments iterates over all segments of the current labeling in label
// order. The iteration is lazy over the current table state; a label whose
// rows were all deleted simply does not appear.
func (t *Table) Segments() iter.Seq2[int64, []Detection] {
	return func(yield func(int64, []Detection) bool) {
		for _, label := range t.Labels() {
			seg := t.Segment(label)
			if len(seg) == 0 {
				continue
			}
			if !yield(label, seg) {
				return
			}
		}
	}
}

// RemoveShorts deletes every segment with fewer than minLength detections
// and returns the number of detections removed.
func (t *Table) RemoveShorts(minLength int) int {
	counts := make(map[int64]int)
	for _, r := range t.rows {
		counts[r.Label]++
	}
	kept := t.rows[:0]
	removed := 0
	for _, r := range t.rows {
		if counts[r.Label] < minLength {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	return removed
}

// ReverseTime remaps every detection's time to (maxTime - time) and
// re-sorts, so the frame linker can run as an independent backward pass.
// Applying it twice restores the original ordering and values.
func (t *Table) ReverseTime() {
	if len(t.rows) == 0 {
		return
	}
	maxTime := t.rows[len(t.rows)-1].Time
	for i := range t.rows {
		t.rows[i].Time = maxTime - t.rows[i].Time
	}
	t.sortRows()
}

// BeginRelink activates the working label column, initialized from the
// current labels.
func (t *Table) BeginRelink() {
	t.working = make([]int64, len(t.rows))
	for i, r := range t.rows {
		t.working[i] = r.Label
	}
	t.relinking = true
}

// WorkingLabel returns the working label of row i. Outside a relink it is
// the committed label.
func (t *Table) WorkingLabel(i int) int64 {
	if t.relinking {
		return t.working[i]
	}
	return t.rows[i].Label
}

// SetWorkingLabel writes the working label of row i.
func (t *Table) SetWorkingLabel(i int, label int64) {
	t.working[i] = label
}

// Commit promotes the working labels to the primary label column and
// deactivates relinking.
func (t *Table) Commit() {
	for i := range t.rows {
		t.rows[i].Label = t.working[i]
	}
	t.working = nil
	t.relinking = false
	t.sortRows()
}

// segmentUpTo collects the history of a working label: all rows at or
// before tp carrying it, ordered by time.
func (t *Table) segmentUpTo(label int64, tp float64) []Detection {
	seg := make([]Detection, 0)
	for i, r := range t.rows {
		if r.Time > tp {
			break
		}
		if t.WorkingLabel(i) == label {
			seg = append(seg, r)
		}
	}
	return seg
}
