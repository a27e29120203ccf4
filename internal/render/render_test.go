package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gridlab-ge/apclimb/internal/place"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testScene() (int, []place.Position, place.Placement, float64) {
	clients := []place.Position{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 4, Y: 4}}
	placement := place.Placement{{X: 0, Y: 1}, {X: 4, Y: 3}}
	return 5, clients, placement, -4
}

func TestSavePlacementPNG(t *testing.T) {
	gridSize, clients, placement, score := testScene()
	path := filepath.Join(t.TempDir(), "placement.png")

	if err := SavePlacementPNG(path, gridSize, clients, placement, score); err != nil {
		t.Fatalf("SavePlacementPNG failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read plot file: %v", err)
	}
	if len(data) < len(pngMagic) || !bytes.Equal(data[:len(pngMagic)], pngMagic) {
		t.Error("Output does not start with the PNG signature")
	}
}

func TestWritePlacementPNG(t *testing.T) {
	gridSize, clients, placement, score := testScene()

	var buf bytes.Buffer
	if err := WritePlacementPNG(&buf, gridSize, clients, placement, score); err != nil {
		t.Fatalf("WritePlacementPNG failed: %v", err)
	}

	if buf.Len() < len(pngMagic) || !bytes.Equal(buf.Bytes()[:len(pngMagic)], pngMagic) {
		t.Error("Output does not start with the PNG signature")
	}
}

func TestPlacementChartRenders(t *testing.T) {
	gridSize, clients, placement, score := testScene()

	var buf bytes.Buffer
	if err := PlacementChart(gridSize, clients, placement, score).Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"clients", "access points", "Access Point Placement"} {
		if !strings.Contains(html, want) {
			t.Errorf("Rendered chart missing %q", want)
		}
	}
}

func TestScoresChartRenders(t *testing.T) {
	runs := []place.RunResult{
		{Score: -20, Steps: 4, Improvements: 4},
		{Score: -14, Steps: 6, Improvements: 6},
		{Score: -16, Steps: 5, Improvements: 5},
	}

	var buf bytes.Buffer
	if err := ScoresChart(runs).Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"restart score", "running best"} {
		if !strings.Contains(html, want) {
			t.Errorf("Rendered chart missing %q", want)
		}
	}
}

func TestWriteSearchHTML(t *testing.T) {
	gridSize, clients, placement, score := testScene()
	result := &place.RestartResult{
		BestPlacement: placement,
		BestScore:     score,
		BestRestart:   2,
		Runs: []place.RunResult{
			{Score: -6, Steps: 3, Improvements: 3},
			{Score: score, Steps: 5, Improvements: 5},
		},
		Elapsed: 40 * time.Millisecond,
	}

	var buf bytes.Buffer
	if err := WriteSearchHTML(&buf, gridSize, clients, result); err != nil {
		t.Fatalf("WriteSearchHTML failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Access Point Placement", "Restart Scores"} {
		if !strings.Contains(html, want) {
			t.Errorf("Rendered page missing %q", want)
		}
	}
}
