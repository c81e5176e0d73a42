package lap

import "sync/atomic"

// labelGenerator allocates monotonically increasing labels for one tracking
// session. Every allocation is strictly greater than any label in use when
// the generator was seeded, so no two births across the run can collide.
type labelGenerator struct {
	last atomic.Int64
}

func newLabelGenerator(maxInUse int64) *labelGenerator {
	g := &labelGenerator{}
	g.last.Store(maxInUse)
	return g
}

// Next returns a fresh label.
func (g *labelGenerator) Next() int64 {
	return g.last.Add(1)
}
