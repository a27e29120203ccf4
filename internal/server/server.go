package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gridlab-ge/apclimb/internal/config"
	"github.com/gridlab-ge/apclimb/internal/history"
	"github.com/gridlab-ge/apclimb/internal/render"
)

// Server represents the HTTP server
type Server struct {
	searchManager *SearchManager
	history       *history.Store
	addr          string
	server        *http.Server
}

// NewServer creates a new HTTP server. The history store may be nil, in
// which case completed searches are not persisted.
func NewServer(addr string, hist *history.Store) *Server {
	return &Server{
		searchManager: NewSearchManager(),
		history:       hist,
		addr:          addr,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Register UI routes
	mux.HandleFunc("/", s.handleIndex)

	// Register API routes
	mux.HandleFunc("/api/v1/searches", s.handleSearches)
	mux.HandleFunc("/api/v1/searches/", s.handleSearchesWithID)
	mux.HandleFunc("/api/v1/history", s.handleHistory)

	// Wrap with middleware
	handler := s.loggingMiddleware(s.corsMiddleware(mux))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: handler,
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleSearches handles /api/v1/searches
func (s *Server) handleSearches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSearch(w, r)
	case http.MethodGet:
		s.handleListSearches(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSearchesWithID handles /api/v1/searches/:id/*
func (s *Server) handleSearchesWithID(w http.ResponseWriter, r *http.Request) {
	// Parse search ID from path
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/searches/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Search ID required", http.StatusBadRequest)
		return
	}

	searchID := parts[0]

	// Route based on subpath
	if len(parts) == 1 || parts[1] == "status" {
		s.handleGetSearchStatus(w, r, searchID)
	} else if parts[1] == "stream" {
		s.handleSearchStream(w, r, searchID)
	} else if parts[1] == "placement.png" {
		s.handleGetPlacementPNG(w, r, searchID)
	} else if parts[1] == "placement.html" {
		s.handleGetPlacementHTML(w, r, searchID)
	} else if parts[1] == "scores.html" {
		s.handleGetScoresHTML(w, r, searchID)
	} else {
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// applySearchDefaults fills unset request fields the way the CLI fills
// them from the default scenario. A zero seed is replaced with the clock
// so repeated requests explore different instances.
func applySearchDefaults(cfg SearchConfig) SearchConfig {
	def := config.DefaultScenario()
	if cfg.GridSize <= 0 {
		cfg.GridSize = def.GridSize
	}
	if cfg.Clients <= 0 {
		cfg.Clients = def.Clients
	}
	if cfg.AccessPoints <= 0 {
		cfg.AccessPoints = def.AccessPoints
	}
	if cfg.Restarts <= 0 {
		cfg.Restarts = def.Restarts
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg
}

// handleCreateSearch handles POST /api/v1/searches
func (s *Server) handleCreateSearch(w http.ResponseWriter, r *http.Request) {
	var cfg SearchConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	cfg = applySearchDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Create search
	search := s.searchManager.CreateSearch(cfg)

	// Start worker in background
	go runSearch(context.Background(), s.searchManager, s.history, search.ID)

	// Return search
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(search)
}

// handleListSearches handles GET /api/v1/searches
func (s *Server) handleListSearches(w http.ResponseWriter, r *http.Request) {
	searches := s.searchManager.ListSearches()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(searches)
}

// handleGetSearchStatus handles GET /api/v1/searches/:id/status
func (s *Server) handleGetSearchStatus(w http.ResponseWriter, r *http.Request, searchID string) {
	search, exists := s.searchManager.GetSearch(searchID)
	if !exists {
		http.Error(w, "Search not found", http.StatusNotFound)
		return
	}

	// Compute elapsed time and restart throughput
	var elapsed time.Duration
	if search.EndTime != nil {
		elapsed = search.EndTime.Sub(search.StartTime)
	} else {
		elapsed = time.Since(search.StartTime)
	}

	rps := float64(0)
	if elapsed.Seconds() > 0 {
		rps = float64(search.RestartsDone) / elapsed.Seconds()
	}

	// Create response
	response := map[string]interface{}{
		"id":                search.ID,
		"state":             search.State,
		"config":            search.Config,
		"clientSet":         search.ClientSet,
		"restartsDone":      search.RestartsDone,
		"bestScore":         search.BestScore,
		"bestRestart":       search.BestRestart,
		"elapsed":           elapsed.Seconds(),
		"restartsPerSecond": rps,
		"startTime":         search.StartTime,
		"endTime":           search.EndTime,
		"error":             search.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetPlacementPNG handles GET /api/v1/searches/:id/placement.png
func (s *Server) handleGetPlacementPNG(w http.ResponseWriter, r *http.Request, searchID string) {
	search, exists := s.searchManager.GetSearch(searchID)
	if !exists {
		http.Error(w, "Search not found", http.StatusNotFound)
		return
	}

	if search.Result == nil {
		http.Error(w, "No results yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")

	err := render.WritePlacementPNG(w, search.Config.GridSize, search.ClientSet,
		search.Result.BestPlacement, search.Result.BestScore)
	if err != nil {
		slog.Error("Failed to render placement PNG", "search_id", searchID, "error", err)
	}
}

// handleGetPlacementHTML handles GET /api/v1/searches/:id/placement.html
func (s *Server) handleGetPlacementHTML(w http.ResponseWriter, r *http.Request, searchID string) {
	search, exists := s.searchManager.GetSearch(searchID)
	if !exists {
		http.Error(w, "Search not found", http.StatusNotFound)
		return
	}

	if search.Result == nil {
		http.Error(w, "No results yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	chart := render.PlacementChart(search.Config.GridSize, search.ClientSet,
		search.Result.BestPlacement, search.Result.BestScore)
	if err := chart.Render(w); err != nil {
		slog.Error("Failed to render placement chart", "search_id", searchID, "error", err)
	}
}

// handleGetScoresHTML handles GET /api/v1/searches/:id/scores.html
func (s *Server) handleGetScoresHTML(w http.ResponseWriter, r *http.Request, searchID string) {
	search, exists := s.searchManager.GetSearch(searchID)
	if !exists {
		http.Error(w, "Search not found", http.StatusNotFound)
		return
	}

	if search.Result == nil {
		http.Error(w, "No results yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := render.ScoresChart(search.Result.Runs).Render(w); err != nil {
		slog.Error("Failed to render scores chart", "search_id", searchID, "error", err)
	}
}

// handleHistory handles GET /api/v1/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.history == nil {
		http.Error(w, "History not enabled", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := s.history.List(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list history: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
