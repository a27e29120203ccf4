package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gridlab-ge/apclimb/internal/config"
	"github.com/gridlab-ge/apclimb/internal/history"
	"github.com/gridlab-ge/apclimb/internal/place"
	"github.com/gridlab-ge/apclimb/internal/render"
	"github.com/gridlab-ge/apclimb/internal/report"
	"github.com/spf13/cobra"
)

var (
	gridSize     int
	clientCount  int
	apCount      int
	restartCount int
	maxSteps     int
	seed         int64
	workers      int
	scenarioPath string
	plotPath     string
	htmlPath     string
	dbPath       string
	quiet        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a placement search",
	Long: `Runs steepest-ascent hill climbing with random restarts and reports the
best access point placement found.`,
	RunE: runPlacement,
}

func init() {
	runCmd.Flags().IntVar(&gridSize, "grid", 10, "Grid side length")
	runCmd.Flags().IntVar(&clientCount, "clients", 5, "Number of client positions to sample")
	runCmd.Flags().IntVar(&apCount, "aps", 2, "Number of access points to place")
	runCmd.Flags().IntVar(&restartCount, "restarts", 10, "Number of random restarts")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 500, "Improvement budget per climb")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	runCmd.Flags().IntVar(&workers, "workers", 1, "Parallel climb workers (1 = sequential)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (mutually exclusive with instance flags)")
	runCmd.Flags().StringVar(&plotPath, "plot", "", "Write the placement plot PNG to this path")
	runCmd.Flags().StringVar(&htmlPath, "html", "", "Write the interactive HTML report to this path")
	runCmd.Flags().StringVar(&dbPath, "db", "", "Record the search in this history database")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress per-restart progress lines")

	rootCmd.AddCommand(runCmd)
}

func runPlacement(cmd *cobra.Command, args []string) error {
	scenario, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	slog.Info("Starting placement search",
		"grid_size", scenario.GridSize,
		"clients", scenario.Clients,
		"access_points", scenario.AccessPoints,
		"restarts", scenario.Restarts,
		"workers", scenario.Workers,
	)

	inst, err := place.NewInstance(place.Config{
		GridSize:     scenario.GridSize,
		Clients:      scenario.Clients,
		AccessPoints: scenario.AccessPoints,
		Seed:         scenario.Seed,
	})
	if err != nil {
		return err
	}

	var progress func(place.RestartUpdate)
	if !quiet {
		progress = report.Progress(os.Stdout)
	}

	var result *place.RestartResult
	if scenario.Workers > 1 {
		result, err = inst.ClimbWithRestartsParallel(scenario.Restarts, scenario.MaxSteps, scenario.Workers, progress)
	} else {
		result, err = inst.ClimbWithRestarts(scenario.Restarts, scenario.MaxSteps, progress)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	report.PrintAnalysis(os.Stdout, result, inst.MeanClientDistance(result.BestPlacement))

	if plotPath != "" {
		if err := render.SavePlacementPNG(plotPath, inst.GridSize(), inst.Clients(), result.BestPlacement, result.BestScore); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}
		fmt.Printf("Wrote %s\n", plotPath)
	}

	if htmlPath != "" {
		f, err := os.Create(htmlPath)
		if err != nil {
			return fmt.Errorf("failed to create HTML report: %w", err)
		}
		defer f.Close()
		if err := render.WriteSearchHTML(f, inst.GridSize(), inst.Clients(), result); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		fmt.Printf("Wrote %s\n", htmlPath)
	}

	if dbPath != "" {
		if err := recordSearch(dbPath, scenario, inst, result); err != nil {
			return fmt.Errorf("failed to record search: %w", err)
		}
	}

	return nil
}

// resolveScenario builds the search parameters either from a scenario file
// or from the individual flags. Mixing both is rejected so a stray flag
// cannot silently override a reviewed scenario file.
func resolveScenario(cmd *cobra.Command) (config.Scenario, error) {
	if scenarioPath == "" {
		s := config.Scenario{
			GridSize:     gridSize,
			Clients:      clientCount,
			AccessPoints: apCount,
			Restarts:     restartCount,
			MaxSteps:     maxSteps,
			Seed:         seed,
			Workers:      workers,
		}
		if err := s.Validate(); err != nil {
			return config.Scenario{}, err
		}
		return s, nil
	}

	for _, name := range []string{"grid", "clients", "aps", "restarts", "max-steps", "seed", "workers"} {
		if cmd.Flags().Changed(name) {
			return config.Scenario{}, fmt.Errorf("--scenario cannot be combined with --%s", name)
		}
	}
	return config.LoadScenario(scenarioPath)
}

func recordSearch(path string, scenario config.Scenario, inst *place.Instance, result *place.RestartResult) error {
	hist, err := history.Open(path)
	if err != nil {
		return err
	}
	defer hist.Close()

	rec := &history.Record{
		GridSize:     scenario.GridSize,
		Clients:      scenario.Clients,
		AccessPoints: scenario.AccessPoints,
		Restarts:     scenario.Restarts,
		MaxSteps:     scenario.MaxSteps,
		Seed:         scenario.Seed,
		BestScore:    result.BestScore,
		BestRestart:  result.BestRestart,
		MeanScore:    result.Stats.Mean,
		StdDevScore:  result.Stats.StdDev,
		UniqueScores: result.Stats.UniqueScores,
		Improvements: result.Stats.TotalImprovements,
		Elapsed:      result.Elapsed,
		Placement:    result.BestPlacement,
		ClientSet:    inst.Clients(),
	}
	if err := hist.Insert(rec); err != nil {
		return err
	}

	fmt.Printf("Recorded search %s in %s\n", rec.ID, path)
	return nil
}
