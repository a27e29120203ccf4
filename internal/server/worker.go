package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridlab-ge/apclimb/internal/history"
	"github.com/gridlab-ge/apclimb/internal/place"
)

// runSearch executes a placement search in the background. Progress is
// written to the search record and broadcast per restart. If hist is not
// nil, the completed search is appended to the history store.
func runSearch(ctx context.Context, sm *SearchManager, hist *history.Store, searchID string) error {
	search, exists := sm.GetSearch(searchID)
	if !exists {
		return fmt.Errorf("search not found: %s", searchID)
	}
	cfg := search.Config

	err := sm.UpdateSearch(searchID, func(s *Search) {
		s.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting search",
		"search_id", searchID,
		"grid_size", cfg.GridSize,
		"clients", cfg.Clients,
		"access_points", cfg.AccessPoints,
		"restarts", cfg.Restarts,
	)

	inst, err := place.NewInstance(place.Config{
		GridSize:     cfg.GridSize,
		Clients:      cfg.Clients,
		AccessPoints: cfg.AccessPoints,
		Seed:         cfg.Seed,
	})
	if err != nil {
		markSearchFailed(sm, searchID, fmt.Errorf("failed to build instance: %w", err))
		return err
	}

	sm.UpdateSearch(searchID, func(s *Search) {
		s.ClientSet = inst.Clients()
	})

	// Check for cancellation before starting the long-running part
	select {
	case <-ctx.Done():
		markSearchCancelled(sm, searchID)
		return ctx.Err()
	default:
	}

	progress := func(u place.RestartUpdate) {
		sm.UpdateSearch(searchID, func(s *Search) {
			s.RestartsDone = u.Restart
			s.BestScore = u.BestScore
			if u.Improved {
				s.BestRestart = u.Restart
			}
		})
		sm.broadcaster.Broadcast(ProgressEvent{
			SearchID:  searchID,
			State:     StateRunning,
			Restart:   u.Restart,
			Restarts:  cfg.Restarts,
			Score:     u.Result.Score,
			BestScore: u.BestScore,
			Improved:  u.Improved,
			Timestamp: time.Now(),
		})
	}

	start := time.Now()
	var result *place.RestartResult
	if cfg.Workers > 1 {
		result, err = inst.ClimbWithRestartsParallel(cfg.Restarts, cfg.MaxSteps, cfg.Workers, progress)
	} else {
		result, err = inst.ClimbWithRestarts(cfg.Restarts, cfg.MaxSteps, progress)
	}
	if err != nil {
		markSearchFailed(sm, searchID, fmt.Errorf("failed to run search: %w", err))
		return err
	}

	// Check for cancellation after the search
	select {
	case <-ctx.Done():
		markSearchCancelled(sm, searchID)
		return ctx.Err()
	default:
	}

	endTime := time.Now()
	err = sm.UpdateSearch(searchID, func(s *Search) {
		s.State = StateCompleted
		s.Result = result
		s.BestScore = result.BestScore
		s.BestRestart = result.BestRestart
		s.RestartsDone = len(result.Runs)
		s.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	slog.Info("Search completed",
		"search_id", searchID,
		"elapsed", time.Since(start),
		"best_score", result.BestScore,
		"best_restart", result.BestRestart,
	)

	if hist != nil {
		rec := &history.Record{
			ID:           searchID,
			GridSize:     cfg.GridSize,
			Clients:      cfg.Clients,
			AccessPoints: cfg.AccessPoints,
			Restarts:     cfg.Restarts,
			MaxSteps:     cfg.MaxSteps,
			Seed:         cfg.Seed,
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
			slog.Warn("Failed to record search history", "search_id", searchID, "error", err)
		}
	}

	// Broadcast final completion event
	sm.broadcaster.Broadcast(ProgressEvent{
		SearchID:  searchID,
		State:     StateCompleted,
		Restart:   len(result.Runs),
		Restarts:  cfg.Restarts,
		Score:     result.BestScore,
		BestScore: result.BestScore,
		Timestamp: time.Now(),
	})

	return nil
}

// markSearchFailed marks a search as failed with an error message
func markSearchFailed(sm *SearchManager, searchID string, err error) {
	endTime := time.Now()
	sm.UpdateSearch(searchID, func(s *Search) {
		s.State = StateFailed
		s.Error = err.Error()
		s.EndTime = &endTime
	})
	slog.Error("Search failed", "search_id", searchID, "error", err)
}

// markSearchCancelled marks a search as cancelled
func markSearchCancelled(sm *SearchManager, searchID string) {
	endTime := time.Now()
	sm.UpdateSearch(searchID, func(s *Search) {
		s.State = StateCancelled
		s.EndTime = &endTime
	})
	slog.Info("Search cancelled", "search_id", searchID)
}
