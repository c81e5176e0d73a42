package lap

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrInfeasibleAssignment reports that no feasible matching exists for an
// assignment problem. The frame linker degrades to all-birth relabeling
// when it sees this; it is never fatal.
var ErrInfeasibleAssignment = errors.New("no feasible assignment")

// sparseCosts flattens the finite entries of an augmented cost matrix into
// the (row, column, cost) triples the assignment solver consumes.
func sparseCosts(m *mat.Dense) (rows, cols []int, costs []float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsInf(v, 1) {
				continue
			}
			rows = append(rows, i)
			cols = append(cols, j)
			costs = append(costs, v)
		}
	}
	return rows, cols, costs
}

// solveAssignment computes a minimum-cost perfect matching over the sparse
// bipartite graph described by the (row, column, cost) triples of an n-by-n
// augmented matrix. It returns the row-to-column and column-to-row maps of
// the matching, or ErrInfeasibleAssignment when no perfect matching over
// the given edges exists.
func solveAssignment(rows, cols []int, costs []float64, n int) (rowToCol, colToRow []int, err error) {
	if n == 0 || len(rows) == 0 {
		return nil, nil, errors.Wrap(ErrInfeasibleAssignment, "empty assignment problem")
	}

	// The matching runs over a dense square matrix with finite entries;
	// absent edges get a sentinel large enough that the optimum never
	// prefers one over any combination of real edges.
	maxCost := 0.0
	for _, c := range costs {
		if c > maxCost {
			maxCost = c
		}
	}
	sentinel := (maxCost + 1) * float64(n)

	dense := make([][]float64, n)
	for i := range dense {
		dense[i] = make([]float64, n)
		for j := range dense[i] {
			dense[i][j] = sentinel
		}
	}
	edges := make(map[int]map[int]struct{}, n)
	for k := range rows {
		dense[rows[k]][cols[k]] = costs[k]
		if edges[rows[k]] == nil {
			edges[rows[k]] = make(map[int]struct{})
		}
		edges[rows[k]][cols[k]] = struct{}{}
	}

	rowToCol = minCostMatching(dense)
	colToRow = make([]int, n)
	for i, j := range rowToCol {
		colToRow[j] = i
	}

	for i := 0; i < n; i++ {
		if _, ok := edges[i][rowToCol[i]]; !ok {
			// The optimum was forced through an absent edge: there is no
			// perfect matching over the real edges.
			return nil, nil, errors.Wrapf(ErrInfeasibleAssignment, "row %d forced to absent edge %d", i, rowToCol[i])
		}
	}
	return rowToCol, colToRow, nil
}

// minCostMatching computes a minimum-cost perfect matching of a dense
// square cost matrix with the shortest-augmenting-path (Jonker-Volgenant)
// method: one augmentation per row, dual potentials kept feasible
// throughout, O(n^3) overall. All entries must be finite. Returns the
// column matched to each row.
func minCostMatching(cost [][]float64) []int {
	n := len(cost)
	// 1-based working arrays; index 0 is the virtual free column.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	matchedRow := make([]int, n+1)
	way := make([]int, n+1)
	for i := 1; i <= n; i++ {
		matchedRow[0] = i
		j0 := 0
		minSlack := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minSlack {
			minSlack[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := matchedRow[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				slack := cost[i0-1][j-1] - u[i0] - v[j]
				if slack < minSlack[j] {
					minSlack[j] = slack
					way[j] = j0
				}
				if minSlack[j] < delta {
					delta = minSlack[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[matchedRow[j]] += delta
					v[j] -= delta
				} else {
					minSlack[j] -= delta
				}
			}
			j0 = j1
			if matchedRow[j0] == 0 {
				break
			}
		}
		// Flip the matching along the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			matchedRow[j0] = matchedRow[j1]
			j0 = j1
		}
	}
	rowToCol := make([]int, n)
	for j := 1; j <= n; j++ {
		rowToCol[matchedRow[j]-1] = j - 1
	}
	return rowToCol
}
