package place

import (
	"fmt"
	"sync"
	"time"
)

// RestartUpdate reports the outcome of one restart to a progress callback.
type RestartUpdate struct {
	Restart   int       `json:"restart"` // 1-based restart index
	Result    RunResult `json:"result"`
	Improved  bool      `json:"improved"`  // this restart replaced the incumbent best
	BestScore float64   `json:"bestScore"` // incumbent best score after this restart
}

// RestartResult aggregates a full random-restart search.
type RestartResult struct {
	BestPlacement Placement     `json:"bestPlacement"`
	BestScore     float64       `json:"bestScore"`
	BestRestart   int           `json:"bestRestart"` // 1-based index of the winning restart
	Runs          []RunResult   `json:"runs"`
	Stats         Stats         `json:"stats"`
	Elapsed       time.Duration `json:"elapsed"`
}

// ClimbWithRestarts runs the climber from independently sampled starting
// placements and keeps the best result. The incumbent is replaced only on
// a strictly better score, so the earliest restart wins ties. The progress
// callback, when non-nil, is invoked once per restart in restart order.
func (in *Instance) ClimbWithRestarts(restarts, maxSteps int, progress func(RestartUpdate)) (*RestartResult, error) {
	if restarts < 1 {
		return nil, fmt.Errorf("restart count must be at least 1, got %d", restarts)
	}

	start := time.Now()
	runs := make([]RunResult, 0, restarts)

	var best RunResult
	bestRestart := 0

	for r := 1; r <= restarts; r++ {
		result := in.Climb(in.RandomPlacement(), maxSteps)
		runs = append(runs, result)

		improved := bestRestart == 0 || result.Score > best.Score
		if improved {
			best = result
			bestRestart = r
		}

		if progress != nil {
			progress(RestartUpdate{
				Restart:   r,
				Result:    result,
				Improved:  improved,
				BestScore: best.Score,
			})
		}
	}

	return &RestartResult{
		BestPlacement: best.Placement,
		BestScore:     best.Score,
		BestRestart:   bestRestart,
		Runs:          runs,
		Stats:         computeStats(runs),
		Elapsed:       time.Since(start),
	}, nil
}

// ClimbWithRestartsParallel distributes the restarts over a bounded pool of
// workers. All starting placements are drawn from the instance stream
// before any worker runs, in restart order, so the result is identical to
// the sequential search for the same seed regardless of worker count.
// Aggregation and progress delivery also follow restart order, keeping the
// tie-break and the callback sequence deterministic. A worker count of one
// or less falls through to the sequential path.
func (in *Instance) ClimbWithRestartsParallel(restarts, maxSteps, workers int, progress func(RestartUpdate)) (*RestartResult, error) {
	if restarts < 1 {
		return nil, fmt.Errorf("restart count must be at least 1, got %d", restarts)
	}
	if workers <= 1 {
		return in.ClimbWithRestarts(restarts, maxSteps, progress)
	}
	if workers > restarts {
		workers = restarts
	}

	start := time.Now()

	starts := make([]Placement, restarts)
	for i := range starts {
		starts[i] = in.RandomPlacement()
	}

	runs := make([]RunResult, restarts)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < restarts; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			runs[idx] = in.Climb(starts[idx], maxSteps)
		}(i)
	}
	wg.Wait()

	var best RunResult
	bestRestart := 0
	for i, result := range runs {
		improved := bestRestart == 0 || result.Score > best.Score
		if improved {
			best = result
			bestRestart = i + 1
		}
		if progress != nil {
			progress(RestartUpdate{
				Restart:   i + 1,
				Result:    result,
				Improved:  improved,
				BestScore: best.Score,
			})
		}
	}

	return &RestartResult{
		BestPlacement: best.Placement,
		BestScore:     best.Score,
		BestRestart:   bestRestart,
		Runs:          runs,
		Stats:         computeStats(runs),
		Elapsed:       time.Since(start),
	}, nil
}
