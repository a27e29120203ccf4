// Package report prints search and comparison results in a compact
// console format.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gridlab-ge/apclimb/internal/compare"
	"github.com/gridlab-ge/apclimb/internal/place"
)

// Progress returns a callback that narrates a restart search. New bests
// are always printed; ordinary restarts only for the first ten, so long
// searches stay readable.
func Progress(w io.Writer) func(place.RestartUpdate) {
	return func(u place.RestartUpdate) {
		switch {
		case u.Improved:
			fmt.Fprintf(w, "restart %d: new best score %.0f\n", u.Restart, u.Result.Score)
		case u.Restart <= 10:
			fmt.Fprintf(w, "restart %d: score %.0f\n", u.Restart, u.Result.Score)
		}
	}
}

// PrintAnalysis writes the post-search report: the winning placement, the
// score statistics over all restarts, and whether restarting beyond the
// first climb paid off.
func PrintAnalysis(w io.Writer, result *place.RestartResult, meanDistance float64) {
	restarts := len(result.Runs)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\nbest score\t%.0f\n", result.BestScore)
	fmt.Fprintf(tw, "placement\t%s\n", FormatPlacement(result.BestPlacement))
	fmt.Fprintf(tw, "found on restart\t%d of %d\n", result.BestRestart, restarts)
	fmt.Fprintf(tw, "mean client distance\t%.2f\n", meanDistance)
	fmt.Fprintf(tw, "elapsed\t%s\n", result.Elapsed.Round(time.Millisecond))
	tw.Flush()

	s := result.Stats
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\nscore mean\t%.2f\n", s.Mean)
	fmt.Fprintf(tw, "score stddev\t%.2f\n", s.StdDev)
	fmt.Fprintf(tw, "score worst\t%.0f\n", s.Worst)
	fmt.Fprintf(tw, "unique scores\t%d of %d (%.0f%%)\n",
		s.UniqueScores, restarts, 100*float64(s.UniqueScores)/float64(restarts))
	fmt.Fprintf(tw, "improvements\t%d total, %.2f per restart\n",
		s.TotalImprovements, s.ImprovementRate)
	tw.Flush()

	if result.BestRestart > 1 {
		fmt.Fprintf(w, "\nrestarts helped: best found on restart %d\n", result.BestRestart)
	} else {
		fmt.Fprintf(w, "\nrestarts unclear: the first restart already found the best\n")
	}
}

// PrintComparison writes the head-to-head outcome of single climbs against
// restart searches.
func PrintComparison(w io.Writer, outcome *compare.Outcome) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\nrounds\t%d\n", outcome.Rounds)
	fmt.Fprintf(tw, "single climb\tmean %.2f, stddev %.2f\n",
		outcome.Single.Mean, outcome.Single.StdDev)
	fmt.Fprintf(tw, "restart search\tmean %.2f, stddev %.2f\n",
		outcome.Restart.Mean, outcome.Restart.StdDev)
	fmt.Fprintf(tw, "restart wins\t%d of %d\n", outcome.RestartWins, outcome.Rounds)
	tw.Flush()
}

// PrintBaseline writes the swarm baseline outcome for comparison against
// the climbing results.
func PrintBaseline(w io.Writer, b compare.BaselineOutcome) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\nmayfly baseline\tscore %.0f\n", b.Score)
	fmt.Fprintf(tw, "placement\t%s\n", FormatPlacement(b.Placement))
	fmt.Fprintf(tw, "elapsed\t%s\n", b.Elapsed.Round(time.Millisecond))
	tw.Flush()
}

// FormatPlacement renders a placement as space-separated "(x,y)" pairs.
func FormatPlacement(p place.Placement) string {
	parts := make([]string, len(p))
	for i, ap := range p {
		parts[i] = fmt.Sprintf("(%d,%d)", ap.X, ap.Y)
	}
	return strings.Join(parts, " ")
}
