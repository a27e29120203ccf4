package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gridlab-ge/apclimb/internal/history"
	"github.com/gridlab-ge/apclimb/internal/report"
	"github.com/spf13/cobra"
)

var (
	historyDBPath string
	historyLimit  int
	forceDelete   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded searches",
	Long: `Manage the search history database written by run --db and serve --db,
including listing, inspecting, and deleting recorded searches.`,
}

var listHistoryCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded searches",
	Long:  `Display recorded searches with instance parameters, best score, and timing.`,
	RunE:  runListHistory,
}

var showHistoryCmd = &cobra.Command{
	Use:   "show [search-id]",
	Short: "Show one recorded search in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowHistory,
}

var deleteHistoryCmd = &cobra.Command{
	Use:   "delete [search-id]",
	Short: "Delete a recorded search",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.AddCommand(listHistoryCmd)
	historyCmd.AddCommand(showHistoryCmd)
	historyCmd.AddCommand(deleteHistoryCmd)

	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "history.db", "History database path")

	listHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum searches to list (0 = all)")
	deleteHistoryCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Skip confirmation prompt")
}

func runListHistory(cmd *cobra.Command, args []string) error {
	hist, err := history.Open(historyDBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer hist.Close()

	records, err := hist.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list searches: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No recorded searches.")
		return nil
	}

	// Display searches in a table
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEARCH ID\tCREATED\tGRID\tCLIENTS\tAPS\tRESTARTS\tBEST SCORE\tELAPSED")
	fmt.Fprintln(w, "---------\t-------\t----\t-------\t---\t--------\t----------\t-------")

	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%d\t%.0f\t%s\n",
			displayID(rec.ID),
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.GridSize, rec.GridSize,
			rec.Clients,
			rec.AccessPoints,
			rec.Restarts,
			rec.BestScore,
			rec.Elapsed.Round(time.Millisecond),
		)
	}

	w.Flush()

	fmt.Printf("\nTotal searches: %d\n", len(records))
	return nil
}

func runShowHistory(cmd *cobra.Command, args []string) error {
	hist, err := history.Open(historyDBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer hist.Close()

	rec, err := hist.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Search: %s\n", rec.ID)
	fmt.Printf("Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("Configuration:")
	fmt.Printf("  Grid size: %d\n", rec.GridSize)
	fmt.Printf("  Clients: %d\n", rec.Clients)
	fmt.Printf("  Access points: %d\n", rec.AccessPoints)
	fmt.Printf("  Restarts: %d\n", rec.Restarts)
	fmt.Printf("  Max steps: %d\n", rec.MaxSteps)
	fmt.Printf("  Seed: %d\n", rec.Seed)
	fmt.Println()

	fmt.Println("Results:")
	fmt.Printf("  Best score: %.0f (found on restart %d)\n", rec.BestScore, rec.BestRestart)
	fmt.Printf("  Mean score: %.2f (stddev %.2f)\n", rec.MeanScore, rec.StdDevScore)
	fmt.Printf("  Unique scores: %d\n", rec.UniqueScores)
	fmt.Printf("  Improvements: %d\n", rec.Improvements)
	fmt.Printf("  Elapsed: %s\n", rec.Elapsed.Round(time.Millisecond))
	fmt.Println()

	fmt.Printf("Placement: %s\n", report.FormatPlacement(rec.Placement))
	if len(rec.ClientSet) > 0 {
		fmt.Printf("Clients: %s\n", report.FormatPlacement(rec.ClientSet))
	}

	return nil
}

func runDeleteHistory(cmd *cobra.Command, args []string) error {
	hist, err := history.Open(historyDBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer hist.Close()

	rec, err := hist.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Will delete search %s (created %s, best score %.0f).\n",
		displayID(rec.ID), rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.BestScore)

	// Ask for confirmation unless --force is set
	if !forceDelete {
		fmt.Print("\nProceed with deletion? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := hist.Delete(rec.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted search %s.\n", rec.ID)
	return nil
}

// displayID truncates long search IDs for table display.
func displayID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}
