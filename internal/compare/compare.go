// Package compare runs head-to-head studies between single-start hill
// climbing, random-restart search, and a continuous swarm baseline on one
// shared problem instance.
package compare

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/gridlab-ge/apclimb/internal/place"
)

// Options configure a comparison study.
type Options struct {
	Rounds   int // independent comparison rounds
	Restarts int // restarts per multi-start search
	MaxSteps int // step budget per climb
}

// Summary holds the mean and population standard deviation of a score
// series.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

// Outcome aggregates a study. Scores are kept per round so callers can
// render distributions, not just the summaries.
type Outcome struct {
	Rounds        int           `json:"rounds"`
	SingleScores  []float64     `json:"singleScores"`
	RestartScores []float64     `json:"restartScores"`
	Single        Summary       `json:"single"`
	Restart       Summary       `json:"restart"`
	RestartWins   int           `json:"restartWins"`
	Elapsed       time.Duration `json:"elapsed"`
}

// Run plays opts.Rounds rounds on the instance. Each round pits one
// single-start climb against one full restart search, both drawing fresh
// starting placements from the instance stream. A round counts as a restart
// win only when the restart search scores strictly better.
func Run(inst *place.Instance, opts Options) (*Outcome, error) {
	if opts.Rounds < 1 {
		return nil, fmt.Errorf("round count must be at least 1, got %d", opts.Rounds)
	}

	start := time.Now()
	singleScores := make([]float64, 0, opts.Rounds)
	restartScores := make([]float64, 0, opts.Rounds)
	wins := 0

	for round := 0; round < opts.Rounds; round++ {
		single := inst.Climb(inst.RandomPlacement(), opts.MaxSteps)

		multi, err := inst.ClimbWithRestarts(opts.Restarts, opts.MaxSteps, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to run restart search in round %d: %w", round+1, err)
		}

		singleScores = append(singleScores, single.Score)
		restartScores = append(restartScores, multi.BestScore)
		if multi.BestScore > single.Score {
			wins++
		}
	}

	return &Outcome{
		Rounds:        opts.Rounds,
		SingleScores:  singleScores,
		RestartScores: restartScores,
		Single:        summarize(singleScores),
		Restart:       summarize(restartScores),
		RestartWins:   wins,
		Elapsed:       time.Since(start),
	}, nil
}

func summarize(scores []float64) Summary {
	return Summary{
		Mean:   stat.Mean(scores, nil),
		StdDev: stat.PopStdDev(scores, nil),
	}
}
