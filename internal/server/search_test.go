package server

import (
	"testing"
	"time"
)

func TestSearchManager_CreateSearch(t *testing.T) {
	sm := NewSearchManager()

	cfg := SearchConfig{
		GridSize:     10,
		Clients:      5,
		AccessPoints: 2,
		Restarts:     10,
		MaxSteps:     500,
		Seed:         42,
		Workers:      1,
	}

	search := sm.CreateSearch(cfg)

	if search.ID == "" {
		t.Error("Search ID should not be empty")
	}

	if search.State != StatePending {
		t.Errorf("Initial state should be pending, got %s", search.State)
	}

	if search.Config.GridSize != 10 {
		t.Errorf("Config not set correctly")
	}
}

func TestSearchManager_GetSearch(t *testing.T) {
	sm := NewSearchManager()

	search := sm.CreateSearch(SearchConfig{GridSize: 10, Clients: 5, AccessPoints: 2})

	retrieved, exists := sm.GetSearch(search.ID)
	if !exists {
		t.Error("Search should exist")
	}

	if retrieved.ID != search.ID {
		t.Error("Retrieved wrong search")
	}

	_, exists = sm.GetSearch("nonexistent")
	if exists {
		t.Error("Should not find nonexistent search")
	}
}

func TestSearchManager_ListSearches(t *testing.T) {
	sm := NewSearchManager()

	if len(sm.ListSearches()) != 0 {
		t.Error("Should start with no searches")
	}

	sm.CreateSearch(SearchConfig{GridSize: 10})
	sm.CreateSearch(SearchConfig{GridSize: 12})

	searches := sm.ListSearches()
	if len(searches) != 2 {
		t.Errorf("Expected 2 searches, got %d", len(searches))
	}
}

func TestSearchManager_UpdateSearch(t *testing.T) {
	sm := NewSearchManager()

	search := sm.CreateSearch(SearchConfig{GridSize: 10})

	err := sm.UpdateSearch(search.ID, func(s *Search) {
		s.State = StateRunning
		s.RestartsDone = 4
		s.BestScore = -14
	})

	if err != nil {
		t.Errorf("Update should succeed: %v", err)
	}

	updated, _ := sm.GetSearch(search.ID)
	if updated.State != StateRunning {
		t.Error("State should be updated")
	}
	if updated.RestartsDone != 4 {
		t.Error("RestartsDone should be updated")
	}
	if updated.BestScore != -14 {
		t.Error("BestScore should be updated")
	}

	err = sm.UpdateSearch("nonexistent", func(s *Search) {})
	if err == nil {
		t.Error("Update of nonexistent search should fail")
	}
}

func TestSearchManager_GetRunningSearches(t *testing.T) {
	sm := NewSearchManager()

	a := sm.CreateSearch(SearchConfig{GridSize: 10})
	sm.CreateSearch(SearchConfig{GridSize: 12})

	sm.UpdateSearch(a.ID, func(s *Search) { s.State = StateRunning })

	running := sm.GetRunningSearches()
	if len(running) != 1 {
		t.Fatalf("Expected 1 running search, got %d", len(running))
	}
	if running[0].ID != a.ID {
		t.Error("Wrong search reported as running")
	}
}

func TestSearchManager_ThreadSafety(t *testing.T) {
	sm := NewSearchManager()

	search := sm.CreateSearch(SearchConfig{GridSize: 10})

	// Simulate concurrent updates
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(restart int) {
			sm.UpdateSearch(search.ID, func(s *Search) {
				s.RestartsDone = restart
				time.Sleep(1 * time.Millisecond)
			})
			done <- true
		}(i)
	}

	// Wait for all updates
	for i := 0; i < 10; i++ {
		<-done
	}

	// Should not crash - actual value depends on scheduling
	_, exists := sm.GetSearch(search.ID)
	if !exists {
		t.Error("Search should still exist after concurrent updates")
	}
}
