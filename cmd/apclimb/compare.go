package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gridlab-ge/apclimb/internal/compare"
	"github.com/gridlab-ge/apclimb/internal/opt"
	"github.com/gridlab-ge/apclimb/internal/place"
	"github.com/gridlab-ge/apclimb/internal/report"
	"github.com/spf13/cobra"
)

var (
	cmpGrid     int
	cmpClients  int
	cmpAPs      int
	cmpRestarts int
	cmpMaxSteps int
	cmpSeed     int64
	cmpRounds   int
	cmpMayfly   bool
	cmpPop      int
	cmpIters    int
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare search strategies on one instance",
	Long: `Pits a single hill climb against the full restart search over several
rounds, and optionally runs a mayfly swarm baseline on the same instance.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().IntVar(&cmpGrid, "grid", 8, "Grid side length")
	compareCmd.Flags().IntVar(&cmpClients, "clients", 6, "Number of client positions to sample")
	compareCmd.Flags().IntVar(&cmpAPs, "aps", 2, "Number of access points to place")
	compareCmd.Flags().IntVar(&cmpRestarts, "restarts", 10, "Restarts per multi-start search")
	compareCmd.Flags().IntVar(&cmpMaxSteps, "max-steps", 500, "Improvement budget per climb")
	compareCmd.Flags().Int64Var(&cmpSeed, "seed", 42, "Random seed")
	compareCmd.Flags().IntVar(&cmpRounds, "rounds", 5, "Comparison rounds")
	compareCmd.Flags().BoolVar(&cmpMayfly, "mayfly", false, "Also run the mayfly swarm baseline")
	compareCmd.Flags().IntVar(&cmpPop, "pop", 20, "Mayfly population size")
	compareCmd.Flags().IntVar(&cmpIters, "iters", 100, "Mayfly iterations")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	slog.Info("Starting comparison study",
		"grid_size", cmpGrid,
		"clients", cmpClients,
		"access_points", cmpAPs,
		"rounds", cmpRounds,
	)

	inst, err := place.NewInstance(place.Config{
		GridSize:     cmpGrid,
		Clients:      cmpClients,
		AccessPoints: cmpAPs,
		Seed:         cmpSeed,
	})
	if err != nil {
		return err
	}

	outcome, err := compare.Run(inst, compare.Options{
		Rounds:   cmpRounds,
		Restarts: cmpRestarts,
		MaxSteps: cmpMaxSteps,
	})
	if err != nil {
		return err
	}

	report.PrintComparison(os.Stdout, outcome)

	if cmpMayfly {
		baseline := compare.Baseline(inst, opt.NewMayfly(cmpIters, cmpPop, cmpSeed))
		fmt.Println()
		report.PrintBaseline(os.Stdout, baseline)
	}

	return nil
}
