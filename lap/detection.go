package lap

// Detection is a single localized observation: one object seen at one time
// point. The position is 2- or 3-dimensional depending on the session's
// NDims setting; Z is ignored for 2-dimensional data. Intensity is optional
// and only meaningful when the owning table reports HasIntensity.
//
// The Label field starts out as the upstream detector's provisional
// per-frame label and is rewritten by the tracking session so that the same
// physical object carries the same label across all frames it appears in.
type Detection struct {
	Time      float64
	Label     int64
	X         float64
	Y         float64
	Z         float64
	Intensity float64
}

// Coords returns the detection's position as a coordinate vector of the
// requested dimensionality (2 or 3).
func (d Detection) Coords(ndims int) []float64 {
	if ndims == 2 {
		return []float64{d.X, d.Y}
	}
	return []float64{d.X, d.Y, d.Z}
}
