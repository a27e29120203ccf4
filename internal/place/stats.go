package place

import "gonum.org/v1/gonum/stat"

// Stats summarizes the per-restart scores of a search.
type Stats struct {
	Best              float64 `json:"best"`
	Worst             float64 `json:"worst"`
	Mean              float64 `json:"mean"`
	StdDev            float64 `json:"stdDev"` // population standard deviation
	UniqueScores      int     `json:"uniqueScores"`
	TotalImprovements int     `json:"totalImprovements"`
	ImprovementRate   float64 `json:"improvementRate"` // improvements per restart
}

// computeStats derives the score statistics from per-restart results.
// Scores are negated integer distance sums, so counting distinct values by
// float64 equality is exact. Requires at least one run.
func computeStats(runs []RunResult) Stats {
	scores := make([]float64, len(runs))
	unique := make(map[float64]struct{}, len(runs))
	improvements := 0

	for i, r := range runs {
		scores[i] = r.Score
		unique[r.Score] = struct{}{}
		improvements += r.Improvements
	}

	best, worst := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s > best {
			best = s
		}
		if s < worst {
			worst = s
		}
	}

	return Stats{
		Best:              best,
		Worst:             worst,
		Mean:              stat.Mean(scores, nil),
		StdDev:            stat.PopStdDev(scores, nil),
		UniqueScores:      len(unique),
		TotalImprovements: improvements,
		ImprovementRate:   float64(improvements) / float64(len(runs)),
	}
}
