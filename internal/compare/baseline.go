package compare

import (
	"math"
	"time"

	"github.com/gridlab-ge/apclimb/internal/opt"
	"github.com/gridlab-ge/apclimb/internal/place"
)

// BaselineOutcome reports the placement a continuous optimizer found after
// decoding back onto the grid.
type BaselineOutcome struct {
	Placement place.Placement `json:"placement"`
	Score     float64         `json:"score"`
	Elapsed   time.Duration   `json:"elapsed"`
}

// Baseline relaxes the placement problem to a continuous box and hands it
// to the optimizer. Each access point contributes an (x, y) pair, bounded
// by the grid, and candidate vectors are decoded to valid placements before
// scoring so the optimizer and the report see the same objective.
func Baseline(inst *place.Instance, optimizer opt.Optimizer) BaselineOutcome {
	gridSize := inst.GridSize()
	dim := 2 * inst.AccessPoints()

	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := range upper {
		upper[i] = float64(gridSize - 1)
	}

	eval := func(vec []float64) float64 {
		return -inst.Score(decodeDistinct(vec, gridSize))
	}

	start := time.Now()
	best, _ := optimizer.Run(eval, lower, upper, dim)
	placement := decodeDistinct(best, gridSize)

	return BaselineOutcome{
		Placement: placement,
		Score:     inst.Score(placement),
		Elapsed:   time.Since(start),
	}
}

// decodeDistinct maps a parameter vector onto a collision-free placement.
// Coordinates are rounded and clamped to the grid; when two access points
// land on the same cell, the later one is bumped to the nearest free cell
// so the decoded placement is always valid.
func decodeDistinct(vec []float64, gridSize int) place.Placement {
	placement := make(place.Placement, 0, len(vec)/2)
	occupied := make(map[place.Position]bool, len(vec)/2)

	for i := 0; i+1 < len(vec); i += 2 {
		cell := place.Position{
			X: clampToGrid(vec[i], gridSize),
			Y: clampToGrid(vec[i+1], gridSize),
		}
		if occupied[cell] {
			cell = nearestFreeCell(cell, occupied, gridSize)
		}
		occupied[cell] = true
		placement = append(placement, cell)
	}

	return placement
}

func clampToGrid(v float64, gridSize int) int {
	c := int(math.Round(v))
	if c < 0 {
		return 0
	}
	if c >= gridSize {
		return gridSize - 1
	}
	return c
}

// nearestFreeCell returns the unoccupied cell closest to want in Manhattan
// distance, breaking ties by row-major scan order. Callers guarantee the
// grid has at least one free cell.
func nearestFreeCell(want place.Position, occupied map[place.Position]bool, gridSize int) place.Position {
	var best place.Position
	bestDist := math.MaxInt

	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			cell := place.Position{X: x, Y: y}
			if occupied[cell] {
				continue
			}
			if d := place.Manhattan(want, cell); d < bestDist {
				best = cell
				bestDist = d
			}
		}
	}

	return best
}
