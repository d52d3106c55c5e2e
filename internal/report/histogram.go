package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/tracking.report/internal/eval"
)

// WriteHistogram writes a PNG histogram of the signed per-pair errors from
// all tracks in the summary. Useful for spotting bias (mass off zero) that
// the RMS figure alone hides.
func WriteHistogram(path string, summary *eval.Summary) error {
	values := make(plotter.Values, 0, summary.Samples)
	for _, tr := range summary.PerTrack {
		values = append(values, tr.Errors...)
	}
	if len(values) == 0 {
		return fmt.Errorf("no evaluated errors to plot")
	}

	p := plot.New()
	p.Title.Text = "Velocity error distribution"
	p.X.Label.Text = "estimate - ground truth (m/s)"
	p.Y.Label.Text = "frame pairs"

	hist, err := plotter.NewHist(values, 32)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(hist)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}
	return nil
}
