package lap

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Alternative (birth/death) costs are set slightly above the most expensive
// admissible link, so a real link is always preferred when one exists.
const alternativeCostFactor = 1.05

// segmentEndpoints reduces one segment to the data the gap closer needs:
// its first and last detections' times, positions and intensities.
type segmentEndpoints struct {
	label        int64
	startT, endT float64
	start, end   []float64
	startI, endI float64
}

// linkCostMatrix builds the augmented assignment matrix between two
// detection sets. Rows 0..n0-1 are "from" detections, columns 0..n1-1 are
// "to" detections; the remaining rows and columns are birth and death
// alternatives. Entries whose Euclidean displacement exceeds maxDist are
// infeasible (infinite cost).
func linkCostMatrix(from, to *mat.Dense, maxDist float64, dist DistanceFunc) *mat.Dense {
	n0, d := from.Dims()
	n1, _ := to.Dims()

	tl := mat.NewDense(n0, n1, nil)
	maxFinite := math.Inf(-1)
	for i := 0; i < n0; i++ {
		p0 := mat.Row(nil, i, from)
		for j := 0; j < n1; j++ {
			p1 := mat.Row(nil, j, to)
			if euclideanDistance(p0, p1) > maxDist {
				tl.Set(i, j, math.Inf(1))
				continue
			}
			cost := transformedDistance(p0, p1, dist)
			tl.Set(i, j, cost)
			if cost > maxFinite {
				maxFinite = cost
			}
		}
	}

	alt := alternativeCostFactor * maxFinite
	if math.IsInf(maxFinite, -1) {
		// No admissible link at all: use the gate itself so births and
		// deaths stay feasible.
		alt = dist(maxDist) * float64(d)
	}
	if alt <= 0 {
		alt = 1
	}
	return augmentWithAlternatives(tl, alt)
}

// segmentCostMatrix builds the augmented assignment matrix over segment
// endpoints for gap closing: entry (i, j) is the cost of stitching segment
// i's end to segment j's start. A pair is admissible only when segment j
// starts after segment i ends, the temporal gap is at most windowGap, and
// the spatial displacement is at most maxDisp. The displacement cost is
// scaled by the endpoint intensity ratio, which is neutral (1.0) under the
// uniform placeholder used when the intensity column is absent.
func segmentCostMatrix(segs []segmentEndpoints, maxDisp, windowGap float64, dist DistanceFunc) *mat.Dense {
	n := len(segs)
	tl := mat.NewDense(n, n, nil)
	maxFinite := math.Inf(-1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				tl.Set(i, j, math.Inf(1))
				continue
			}
			dt := segs[j].startT - segs[i].endT
			if dt <= 0 || dt > windowGap {
				tl.Set(i, j, math.Inf(1))
				continue
			}
			if euclideanDistance(segs[i].end, segs[j].start) > maxDisp {
				tl.Set(i, j, math.Inf(1))
				continue
			}
			cost := transformedDistance(segs[i].end, segs[j].start, dist) * intensityRatio(segs[i].endI, segs[j].startI)
			tl.Set(i, j, cost)
			if cost > maxFinite {
				maxFinite = cost
			}
		}
	}

	alt := alternativeCostFactor * maxFinite
	if math.IsInf(maxFinite, -1) {
		d := 2
		if n > 0 {
			d = len(segs[0].end)
		}
		alt = dist(maxDisp) * float64(d)
	}
	if alt <= 0 {
		alt = 1
	}
	return augmentWithAlternatives(tl, alt)
}

// augmentWithAlternatives embeds the link block into the standard square
// assignment layout: death alternatives on the upper-right diagonal, birth
// alternatives on the lower-left diagonal, and the transposed link block in
// the lower-right so the matching stays balanced.
func augmentWithAlternatives(tl *mat.Dense, altCost float64) *mat.Dense {
	n0, n1 := tl.Dims()
	n := n0 + n1
	full := mat.NewDense(n, n, nil)
	inf := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			full.Set(i, j, inf)
		}
	}
	for i := 0; i < n0; i++ {
		for j := 0; j < n1; j++ {
			c := tl.At(i, j)
			full.Set(i, j, c)
			if !math.IsInf(c, 1) {
				full.Set(n0+j, n1+i, c)
			}
		}
	}
	for i := 0; i < n0; i++ {
		full.Set(i, n1+i, altCost)
	}
	for j := 0; j < n1; j++ {
		full.Set(n0+j, j, altCost)
	}
	return full
}

func intensityRatio(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 1
	}
	if a > b {
		return a / b
	}
	return b / a
}
