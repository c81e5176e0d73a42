package lap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ReadTableCSV reads a detection table from CSV. The header must contain
// "t", "label", "x" and "y"; "z" and "I" are optional. Column order is
// free.
func ReadTableCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "can't read detection table")
	}
	if len(records) < 1 {
		return nil, errors.New("detection table is empty")
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, required := range []string{"t", "label", "x", "y"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("detection table is missing column %q", required)
		}
	}
	zCol, hasZ := cols["z"]
	iCol, hasI := cols["I"]

	rows := make([]Detection, 0, len(records)-1)
	for n, record := range records[1:] {
		field := func(i int) (float64, error) {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return 0, errors.Wrapf(err, "row %d column %d", n+1, i)
			}
			return v, nil
		}
		var d Detection
		if d.Time, err = field(cols["t"]); err != nil {
			return nil, err
		}
		label, err := strconv.ParseInt(record[cols["label"]], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d label", n+1)
		}
		d.Label = label
		if d.X, err = field(cols["x"]); err != nil {
			return nil, err
		}
		if d.Y, err = field(cols["y"]); err != nil {
			return nil, err
		}
		if hasZ {
			if d.Z, err = field(zCol); err != nil {
				return nil, err
			}
		}
		if hasI {
			if d.Intensity, err = field(iCol); err != nil {
				return nil, err
			}
		}
		rows = append(rows, d)
	}
	return NewTable(rows, hasI)
}

// WriteCSV writes the table with its current labeling. The intensity
// column is written only when the table carries one.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"t", "label", "x", "y", "z"}
	if t.hasIntensity {
		header = append(header, "I")
	}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "can't write detection table header")
	}
	for _, r := range t.rows {
		record := []string{
			fmt.Sprintf("%g", r.Time),
			strconv.FormatInt(r.Label, 10),
			fmt.Sprintf("%g", r.X),
			fmt.Sprintf("%g", r.Y),
			fmt.Sprintf("%g", r.Z),
		}
		if t.hasIntensity {
			record = append(record, fmt.Sprintf("%g", r.Intensity))
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "can't write detection row")
		}
	}
	writer.Flush()
	return writer.Error()
}
