package lap

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// RenderTracks writes a self-contained HTML scatter chart of the current
// tracks, one series per label. Three-dimensional sessions get a 3-D
// scatter, two-dimensional ones a flat x/y chart. Debugging aid for
// eyeballing a linking result without external tooling.
func (tr *Tracker) RenderTracks(w io.Writer) error {
	labels := tr.table.Labels()
	if len(labels) == 0 {
		return errors.New("empty detection table")
	}
	if tr.cfg.NDims == 3 {
		return tr.renderTracks3D(w, labels)
	}

	maxAbs := 0.0
	for _, row := range tr.table.Rows() {
		if math.Abs(row.X) > maxAbs {
			maxAbs = math.Abs(row.X)
		}
		if math.Abs(row.Y) > maxAbs {
			maxAbs = math.Abs(row.Y)
		}
	}
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Linked tracks", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Linked tracks", Subtitle: fmt.Sprintf("tracks=%d detections=%d", len(labels), tr.table.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "y", NameLocation: "middle", NameGap: 30}),
	)

	for label, seg := range tr.table.Segments() {
		data := make([]opts.ScatterData, 0, len(seg))
		for _, det := range seg {
			data = append(data, opts.ScatterData{Value: []interface{}{det.X, det.Y}})
		}
		scatter.AddSeries(fmt.Sprintf("track %d", label), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}

	if err := scatter.Render(w); err != nil {
		return errors.Wrap(err, "can't render track chart")
	}
	return nil
}

func (tr *Tracker) renderTracks3D(w io.Writer, labels []int64) error {
	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Linked tracks", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Linked tracks", Subtitle: fmt.Sprintf("tracks=%d detections=%d", len(labels), tr.table.Len())}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "x"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "y"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "z"}),
	)

	for label, seg := range tr.table.Segments() {
		data := make([]opts.Chart3DData, 0, len(seg))
		for _, det := range seg {
			data = append(data, opts.Chart3DData{Value: []interface{}{det.X, det.Y, det.Z}})
		}
		scatter.AddSeries(fmt.Sprintf("track %d", label), data)
	}

	if err := scatter.Render(w); err != nil {
		return errors.Wrap(err, "can't render track chart")
	}
	return nil
}
