// Package render draws placement results as static PNG images and
// interactive HTML charts.
package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gridlab-ge/apclimb/internal/place"
)

var (
	clientColor = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	apColor     = color.RGBA{R: 38, G: 89, B: 211, A: 255}
	linkColor   = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// buildPlacementPlot assembles the grid view: clients as red squares,
// access points as blue triangles, and a dashed gray link from every
// client to its nearest access point.
func buildPlacementPlot(gridSize int, clients []place.Position, placement place.Placement, score float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Access Point Placement (score %.0f)", score)
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	// Pad by half a cell so markers on the border are not clipped.
	p.X.Min, p.X.Max = -0.5, float64(gridSize)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(gridSize)-0.5

	p.Add(plotter.NewGrid())

	for _, c := range clients {
		nearest := place.NearestAccessPoint(c, placement)
		link, err := plotter.NewLine(plotter.XYs{
			{X: float64(c.X), Y: float64(c.Y)},
			{X: float64(nearest.X), Y: float64(nearest.Y)},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build link line: %w", err)
		}
		link.Color = linkColor
		link.Width = vg.Points(0.5)
		link.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(link)
	}

	clientXYs := make(plotter.XYs, len(clients))
	for i, c := range clients {
		clientXYs[i] = plotter.XY{X: float64(c.X), Y: float64(c.Y)}
	}
	clientScatter, err := plotter.NewScatter(clientXYs)
	if err != nil {
		return nil, fmt.Errorf("failed to build client scatter: %w", err)
	}
	clientScatter.GlyphStyle = draw.GlyphStyle{
		Shape:  draw.BoxGlyph{},
		Color:  clientColor,
		Radius: vg.Points(4),
	}
	p.Add(clientScatter)
	p.Legend.Add("clients", clientScatter)

	apXYs := make(plotter.XYs, len(placement))
	for i, ap := range placement {
		apXYs[i] = plotter.XY{X: float64(ap.X), Y: float64(ap.Y)}
	}
	apScatter, err := plotter.NewScatter(apXYs)
	if err != nil {
		return nil, fmt.Errorf("failed to build access point scatter: %w", err)
	}
	apScatter.GlyphStyle = draw.GlyphStyle{
		Shape:  draw.PyramidGlyph{},
		Color:  apColor,
		Radius: vg.Points(6),
	}
	p.Add(apScatter)
	p.Legend.Add("access points", apScatter)

	p.Legend.Top = true

	return p, nil
}

// SavePlacementPNG writes the grid view to a PNG file.
func SavePlacementPNG(path string, gridSize int, clients []place.Position, placement place.Placement, score float64) error {
	p, err := buildPlacementPlot(gridSize, clients, placement, score)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save placement plot: %w", err)
	}
	return nil
}

// WritePlacementPNG streams the grid view as PNG, for HTTP handlers.
func WritePlacementPNG(w io.Writer, gridSize int, clients []place.Position, placement place.Placement, score float64) error {
	p, err := buildPlacementPlot(gridSize, clients, placement, score)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(8*vg.Inch, 8*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render placement plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write placement plot: %w", err)
	}
	return nil
}
