package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridlab-ge/apclimb/internal/config"
	"github.com/gridlab-ge/apclimb/internal/place"
)

// SearchState represents the current state of a search
type SearchState string

const (
	StatePending   SearchState = "pending"
	StateRunning   SearchState = "running"
	StateCompleted SearchState = "completed"
	StateFailed    SearchState = "failed"
	StateCancelled SearchState = "cancelled"
)

// SearchConfig is an alias so API requests and scenario files share one
// definition.
type SearchConfig = config.Scenario

// Search represents one placement search
type Search struct {
	ID           string               `json:"id"`
	State        SearchState          `json:"state"`
	Config       SearchConfig         `json:"config"`
	ClientSet    []place.Position     `json:"clientSet,omitempty"`
	RestartsDone int                  `json:"restartsDone"`
	BestScore    float64              `json:"bestScore"`
	BestRestart  int                  `json:"bestRestart"`
	Result       *place.RestartResult `json:"result,omitempty"`
	StartTime    time.Time            `json:"startTime"`
	EndTime      *time.Time           `json:"endTime,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// SearchManager manages the lifecycle of searches
type SearchManager struct {
	mu          sync.RWMutex
	searches    map[string]*Search
	broadcaster *EventBroadcaster
}

// NewSearchManager creates a new SearchManager
func NewSearchManager() *SearchManager {
	return &SearchManager{
		searches:    make(map[string]*Search),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateSearch creates a new search with the given configuration
func (sm *SearchManager) CreateSearch(cfg SearchConfig) *Search {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	search := &Search{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    cfg,
		StartTime: time.Now(),
	}

	sm.searches[search.ID] = search
	return search
}

// GetSearch retrieves a search by ID
func (sm *SearchManager) GetSearch(id string) (*Search, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	search, exists := sm.searches[id]
	return search, exists
}

// ListSearches returns all searches
func (sm *SearchManager) ListSearches() []*Search {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	searches := make([]*Search, 0, len(sm.searches))
	for _, search := range sm.searches {
		searches = append(searches, search)
	}
	return searches
}

// UpdateSearch atomically updates a search using the provided function
func (sm *SearchManager) UpdateSearch(id string, updateFn func(*Search)) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	search, exists := sm.searches[id]
	if !exists {
		return fmt.Errorf("search not found: %s", id)
	}

	updateFn(search)
	return nil
}

// GetRunningSearches returns all searches currently in the running state
func (sm *SearchManager) GetRunningSearches() []*Search {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	running := make([]*Search, 0)
	for _, search := range sm.searches {
		if search.State == StateRunning {
			running = append(running, search)
		}
	}
	return running
}
