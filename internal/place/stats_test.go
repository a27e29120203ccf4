package place

import (
	"math"
	"testing"
)

func TestComputeStats(t *testing.T) {
	runs := []RunResult{
		{Score: -2, Improvements: 1},
		{Score: -4, Improvements: 2},
		{Score: -4, Improvements: 3},
		{Score: -6, Improvements: 4},
	}

	stats := computeStats(runs)

	if stats.Best != -2 {
		t.Errorf("Best = %v, want -2", stats.Best)
	}
	if stats.Worst != -6 {
		t.Errorf("Worst = %v, want -6", stats.Worst)
	}
	if stats.Mean != -4 {
		t.Errorf("Mean = %v, want -4", stats.Mean)
	}
	if want := math.Sqrt2; math.Abs(stats.StdDev-want) > 1e-12 {
		t.Errorf("StdDev = %v, want %v", stats.StdDev, want)
	}
	if stats.UniqueScores != 3 {
		t.Errorf("UniqueScores = %d, want 3", stats.UniqueScores)
	}
	if stats.TotalImprovements != 10 {
		t.Errorf("TotalImprovements = %d, want 10", stats.TotalImprovements)
	}
	if stats.ImprovementRate != 2.5 {
		t.Errorf("ImprovementRate = %v, want 2.5", stats.ImprovementRate)
	}
}

func TestComputeStatsSingleRun(t *testing.T) {
	stats := computeStats([]RunResult{{Score: -7, Improvements: 3}})

	if stats.Best != -7 || stats.Worst != -7 || stats.Mean != -7 {
		t.Errorf("Stats = %+v, want all score fields -7", stats)
	}
	if stats.StdDev != 0 {
		t.Errorf("StdDev = %v, want 0", stats.StdDev)
	}
	if stats.ImprovementRate != 3 {
		t.Errorf("ImprovementRate = %v, want 3", stats.ImprovementRate)
	}
}
