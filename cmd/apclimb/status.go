package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
)

var statusCmd = &cobra.Command{
	Use:   "status [search-id]",
	Short: "Query server status or a specific search",
	Long: `Queries the server for search status information.
If no search-id is provided, lists all searches.
If search-id is provided, shows detailed status for that search.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// List all searches
		url := fmt.Sprintf("%s/api/v1/searches", serverURL)
		return listSearches(url)
	}

	// Get specific search status
	searchID := args[0]
	url := fmt.Sprintf("%s/api/v1/searches/%s/status", serverURL, searchID)
	return getSearchStatus(url, searchID)
}

func listSearches(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var searches []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&searches); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searches) == 0 {
		fmt.Println("No searches found")
		return nil
	}

	fmt.Printf("Found %d search(es):\n\n", len(searches))
	for _, search := range searches {
		cfg, ok := search["config"].(map[string]interface{})
		if !ok {
			return fmt.Errorf("malformed search entry in server response")
		}
		fmt.Printf("Search ID: %s\n", search["id"])
		fmt.Printf("  State: %s\n", search["state"])
		fmt.Printf("  Grid: %vx%v\n", cfg["gridSize"], cfg["gridSize"])
		fmt.Printf("  Access points: %v\n", cfg["accessPoints"])
		if done, ok := search["restartsDone"].(float64); ok && done > 0 {
			fmt.Printf("  Best score: %.0f (restart %v of %v done)\n",
				search["bestScore"], search["bestRestart"], search["restartsDone"])
		}
		fmt.Println()
	}

	return nil
}

func getSearchStatus(url, searchID string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("search not found: %s", searchID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	// Display status
	fmt.Printf("Search: %s\n", status["id"])
	fmt.Printf("State: %s\n", status["state"])
	fmt.Println()

	config, ok := status["config"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("malformed status in server response")
	}
	fmt.Println("Configuration:")
	fmt.Printf("  Grid size: %v\n", config["gridSize"])
	fmt.Printf("  Clients: %v\n", config["clients"])
	fmt.Printf("  Access points: %v\n", config["accessPoints"])
	fmt.Printf("  Restarts: %v\n", config["restarts"])
	fmt.Printf("  Max steps: %v\n", config["maxSteps"])
	fmt.Printf("  Workers: %v\n", config["workers"])
	fmt.Println()

	fmt.Println("Progress:")
	fmt.Printf("  Restarts done: %v\n", status["restartsDone"])
	if done, ok := status["restartsDone"].(float64); ok && done > 0 {
		fmt.Printf("  Best score: %.0f (found on restart %v)\n", status["bestScore"], status["bestRestart"])
	}

	if secs, ok := status["elapsed"].(float64); ok {
		elapsed := time.Duration(secs * float64(time.Second))
		fmt.Printf("  Elapsed: %s\n", elapsed.Round(time.Millisecond))
	}

	if rps, ok := status["restartsPerSecond"].(float64); ok && rps > 0 {
		fmt.Printf("  Throughput: %.1f restarts/sec\n", status["restartsPerSecond"])
	}

	if msg, ok := status["error"].(string); ok && msg != "" {
		fmt.Printf("\nError: %s\n", msg)
	}

	return nil
}
