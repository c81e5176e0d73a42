package lap

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCARotate projects the table's coordinates onto their principal axes and
// returns the rotated coordinate matrix, one row per detection in table
// order. Diagnostic only: the table itself is not modified.
func (tr *Tracker) PCARotate() (*mat.Dense, error) {
	d := tr.cfg.NDims
	n := tr.table.Len()
	if n == 0 {
		return nil, errors.New("empty detection table")
	}
	coords := mat.NewDense(n, d, nil)
	for i, row := range tr.table.Rows() {
		coords.SetRow(i, row.Coords(d))
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(coords, nil); !ok {
		return nil, errors.New("can't compute principal components")
	}
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	var rotated mat.Dense
	rotated.Mul(coords, &vectors)
	return &rotated, nil
}
