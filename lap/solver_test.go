package lap

import (
	stderrors "errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSparseCosts(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, math.Inf(1), math.Inf(1), 2})
	rows, cols, costs := sparseCosts(m)
	if len(rows) != 2 || len(cols) != 2 || len(costs) != 2 {
		t.Fatalf("expected 2 finite edges, got %d", len(rows))
	}
	if rows[0] != 0 || cols[0] != 0 || costs[0] != 1 {
		t.Errorf("unexpected first edge (%d,%d)=%v", rows[0], cols[0], costs[0])
	}
	if rows[1] != 1 || cols[1] != 1 || costs[1] != 2 {
		t.Errorf("unexpected second edge (%d,%d)=%v", rows[1], cols[1], costs[1])
	}
}

func TestSolveAssignmentDiagonal(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 5, 5, 1})
	rows, cols, costs := sparseCosts(m)
	rowToCol, colToRow, err := solveAssignment(rows, cols, costs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if rowToCol[0] != 0 || rowToCol[1] != 1 {
		t.Errorf("expected diagonal matching, got %v", rowToCol)
	}
	if colToRow[0] != 0 || colToRow[1] != 1 {
		t.Errorf("expected diagonal inverse, got %v", colToRow)
	}
}

func TestSolveAssignmentCross(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{5, 1, 1, 5})
	rows, cols, costs := sparseCosts(m)
	rowToCol, colToRow, err := solveAssignment(rows, cols, costs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if rowToCol[0] != 1 || rowToCol[1] != 0 {
		t.Errorf("expected cross matching, got %v", rowToCol)
	}
	if colToRow[0] != 1 || colToRow[1] != 0 {
		t.Errorf("expected cross inverse, got %v", colToRow)
	}
}

func TestSolveAssignmentFourByFourOptimal(t *testing.T) {
	// The diagonal (total cost 4) is the unique optimum; any greedy or
	// partial matching over the tempting off-diagonal entries costs more.
	m := mat.NewDense(4, 4, []float64{
		1, 2, 3, 4,
		2, 1, 3, 4,
		3, 3, 1, 2,
		4, 4, 2, 1,
	})
	rows, cols, costs := sparseCosts(m)
	rowToCol, colToRow, err := solveAssignment(rows, cols, costs, 4)
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for i, j := range rowToCol {
		total += m.At(i, j)
		if colToRow[j] != i {
			t.Errorf("inconsistent inverse matching at row %d", i)
		}
	}
	if total != 4 {
		t.Errorf("expected optimal total cost 4, got %v (matching %v)", total, rowToCol)
	}
}

func TestSolveAssignmentInfeasible(t *testing.T) {
	// Both rows can only take column 0: no perfect matching exists and
	// the failure must be distinguishable, not silent.
	rows := []int{0, 1}
	cols := []int{0, 0}
	costs := []float64{1, 2}
	_, _, err := solveAssignment(rows, cols, costs, 2)
	if err == nil {
		t.Fatal("expected infeasibility error")
	}
	if !stderrors.Is(err, ErrInfeasibleAssignment) {
		t.Errorf("expected ErrInfeasibleAssignment, got %v", err)
	}
}

func TestSolveAssignmentEmpty(t *testing.T) {
	_, _, err := solveAssignment(nil, nil, nil, 0)
	if !stderrors.Is(err, ErrInfeasibleAssignment) {
		t.Errorf("expected ErrInfeasibleAssignment for empty problem, got %v", err)
	}
}

func TestSolveAssignmentAugmented(t *testing.T) {
	// One admissible link plus alternatives: the real link must win over
	// the death/birth pair.
	from := mat.NewDense(1, 2, []float64{0, 0})
	to := mat.NewDense(1, 2, []float64{0.1, 0.1})
	full := linkCostMatrix(from, to, 1.0, SquaredDiff)
	rows, cols, costs := sparseCosts(full)
	n, _ := full.Dims()
	_, colToRow, err := solveAssignment(rows, cols, costs, n)
	if err != nil {
		t.Fatal(err)
	}
	if colToRow[0] != 0 {
		t.Errorf("expected the real link to be chosen, got row %d", colToRow[0])
	}
}
