package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gridlab-ge/apclimb/internal/place"
)

const (
	clientHex = "#dc322f"
	apHex     = "#2659d3"
	bestHex   = "#859900"
)

// PlacementChart builds an interactive scatter of the grid: clients as red
// squares, access points as blue triangles.
func PlacementChart(gridSize int, clients []place.Position, placement place.Placement, score float64) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Access Point Placement",
			Width:     "700px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Access Point Placement",
			Subtitle: fmt.Sprintf("score %.0f", score),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "X",
			Min:  -0.5,
			Max:  float64(gridSize) - 0.5,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Y",
			Min:  -0.5,
			Max:  float64(gridSize) - 0.5,
		}),
	)

	clientData := make([]opts.ScatterData, len(clients))
	for i, c := range clients {
		clientData[i] = opts.ScatterData{
			Value:  []interface{}{c.X, c.Y},
			Symbol: "rect",
		}
	}
	scatter.AddSeries("clients", clientData,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: clientHex}),
	)

	apData := make([]opts.ScatterData, len(placement))
	for i, ap := range placement {
		apData[i] = opts.ScatterData{
			Value:  []interface{}{ap.X, ap.Y},
			Symbol: "triangle",
		}
	}
	scatter.AddSeries("access points", apData,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 16}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: apHex}),
	)

	return scatter
}

// ScoresChart builds a line chart of per-restart scores together with the
// running best, which makes the benefit of additional restarts visible.
func ScoresChart(runs []place.RunResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Restart Scores",
			Width:     "900px",
			Height:    "450px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Restart Scores",
			Subtitle: fmt.Sprintf("%d restarts", len(runs)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "restart"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score"}),
	)

	restarts := make([]int, len(runs))
	scores := make([]opts.LineData, len(runs))
	best := make([]opts.LineData, len(runs))

	bestSoFar := 0.0
	for i, run := range runs {
		if i == 0 || run.Score > bestSoFar {
			bestSoFar = run.Score
		}
		restarts[i] = i + 1
		scores[i] = opts.LineData{Value: run.Score}
		best[i] = opts.LineData{Value: bestSoFar}
	}

	line.SetXAxis(restarts).
		AddSeries("restart score", scores).
		AddSeries("running best", best,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: bestHex}))

	return line
}

// WriteSearchHTML renders the placement scatter and the restart score line
// onto one self-contained HTML page.
func WriteSearchHTML(w io.Writer, gridSize int, clients []place.Position, result *place.RestartResult) error {
	page := components.NewPage()
	page.AddCharts(
		PlacementChart(gridSize, clients, result.BestPlacement, result.BestScore),
		ScoresChart(result.Runs),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render search page: %w", err)
	}
	return nil
}
