package lap

import "math"

// DistanceFunc transforms a single per-coordinate displacement into its
// contribution to a link cost. Costs are the sum of the transformed
// displacements over all coordinates.
type DistanceFunc func(delta float64) float64

// SquaredDiff is the default distance transform (squared displacement).
func SquaredDiff(delta float64) float64 {
	return delta * delta
}

// AbsDiff is an alternative linear distance transform.
func AbsDiff(delta float64) float64 {
	return math.Abs(delta)
}

func euclideanDistance(p1, p2 []float64) float64 {
	sum := 0.0
	for k := range p1 {
		d := p1[k] - p2[k]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func transformedDistance(p1, p2 []float64, dist DistanceFunc) float64 {
	sum := 0.0
	for k := range p1 {
		sum += dist(p1[k] - p2[k])
	}
	return sum
}
