package report

import (
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/templexxx/jitterz"
)

// SavePlot renders the reported buckets as a bar chart.
// The image format follows the extension of path (.png, .svg, .pdf).
func SavePlot(path string, run Run, r *jitterz.Result) error {
	bs := r.Reported()
	if len(bs) == 0 {
		return fmt.Errorf("report: nothing to plot")
	}

	values := make(plotter.Values, len(bs))
	names := make([]string, len(bs))
	for i, b := range bs {
		values[i] = float64(b.Count)
		names[i] = fmt.Sprintf("%d", b.TimeBoundary/uint64(time.Microsecond))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Stalls on cpu %d (%s, %ds)", run.CPU, run.Clock, r.Duration)
	p.X.Label.Text = "Min stall (us)"
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("report: bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save plot: %w", err)
	}
	return nil
}
