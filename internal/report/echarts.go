// Package report renders evaluation results as HTML charts and PNG plots.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/tracking.report/internal/eval"
)

// WriteHTML renders an evaluation summary as a self-contained HTML page:
// a per-track RMS bar chart and a scatter of signed per-pair errors in
// evaluation order.
func WriteHTML(path string, summary *eval.Summary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Tracking Evaluation", Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-track RMS error (m/s)",
			Subtitle: fmt.Sprintf("overall RMS %.4f m/s over %d frame pairs", summary.RMS, summary.Samples),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(summary.PerTrack))
	values := make([]opts.BarData, 0, len(summary.PerTrack))
	for _, tr := range summary.PerTrack {
		names = append(names, fmt.Sprintf("track %d", tr.TrackNum))
		values = append(values, opts.BarData{Value: tr.RMS})
	}
	bar.SetXAxis(names).AddSeries("rms", values)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Signed per-pair error (m/s)"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "evaluated pair"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "error (m/s)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	sample := 0
	for _, tr := range summary.PerTrack {
		data := make([]opts.ScatterData, 0, len(tr.Errors))
		for _, e := range tr.Errors {
			data = append(data, opts.ScatterData{Value: []interface{}{sample, e}})
			sample++
		}
		if len(data) > 0 {
			scatter.AddSeries(fmt.Sprintf("track %d", tr.TrackNum), data)
		}
	}

	page := components.NewPage()
	page.AddCharts(bar, scatter)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
