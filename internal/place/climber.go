package place

// RunResult captures the outcome of a single hill-climbing run.
//
// Steps and Improvements count the same thing: moves that were adopted.
// The climber only ever moves on a strict improvement and the terminal
// evaluation that finds no better neighbor is not counted, so the two
// fields are always equal. Both are kept because downstream consumers
// read them as separate concepts.
type RunResult struct {
	Placement    Placement `json:"placement"`
	Score        float64   `json:"score"`
	Steps        int       `json:"steps"`
	Improvements int       `json:"improvements"`
}

// Climb performs steepest-ascent hill climbing from start. Each step scores
// every neighbor and adopts the best one, but only when it is strictly
// better than the current placement; ties between neighbors go to the
// first in enumeration order. The run ends at a local maximum, when no
// neighbors exist, or after maxSteps adopted moves. A non-positive
// maxSteps yields a zero-step result holding the start placement.
func (in *Instance) Climb(start Placement, maxSteps int) RunResult {
	current := start.Clone()
	currentScore := in.Score(current)
	improvements := 0

	for improvements < maxSteps {
		neighbors := in.Neighbors(current)
		if len(neighbors) == 0 {
			break
		}

		best := neighbors[0]
		bestScore := in.Score(best)
		for _, n := range neighbors[1:] {
			if s := in.Score(n); s > bestScore {
				best = n
				bestScore = s
			}
		}

		if bestScore <= currentScore {
			break
		}

		current = best
		currentScore = bestScore
		improvements++
	}

	return RunResult{
		Placement:    current,
		Score:        currentScore,
		Steps:        improvements,
		Improvements: improvements,
	}
}
