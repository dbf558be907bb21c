// Package report renders a session report as a standalone HTML page with a
// score-over-time chart built from the fraud score history.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/engine"
)

// RenderScoreTimeline writes an HTML page charting every score snapshot in
// the report, in append order.
func RenderScoreTimeline(rep engine.Report, title string, w io.Writer) error {
	line := generateScoreChart(rep, title)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render score timeline: %w", err)
	}
	return nil
}

func generateScoreChart(rep engine.Report, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("session %s", rep.Session.ID),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Max:   100,
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0, len(rep.Scores))
	for _, snapshot := range rep.Scores {
		items = append(items, opts.LineData{Value: []interface{}{snapshot.Timestamp, snapshot.Score}})
	}

	line.AddSeries("Fraud Score", items).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
