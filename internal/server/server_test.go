package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gridlab-ge/apclimb/internal/history"
)

func TestServer_CreateSearch(t *testing.T) {
	s := NewServer(":8080", nil)

	cfg := SearchConfig{
		GridSize:     6,
		Clients:      4,
		AccessPoints: 2,
		Restarts:     3,
		MaxSteps:     100,
		Seed:         42,
		Workers:      1,
	}

	body, _ := json.Marshal(cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateSearch(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var search Search
	if err := json.NewDecoder(w.Body).Decode(&search); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if search.ID == "" {
		t.Error("Search ID should not be empty")
	}
	if search.Config.GridSize != 6 {
		t.Errorf("Config grid size = %d, want 6", search.Config.GridSize)
	}
}

func TestServer_CreateSearch_Defaults(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()

	s.handleCreateSearch(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var search Search
	if err := json.NewDecoder(w.Body).Decode(&search); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	cfg := search.Config
	if cfg.GridSize != 10 || cfg.Clients != 5 || cfg.AccessPoints != 2 {
		t.Errorf("Instance defaults not applied: %+v", cfg)
	}
	if cfg.Restarts != 10 || cfg.MaxSteps != 500 || cfg.Workers != 1 {
		t.Errorf("Search defaults not applied: %+v", cfg)
	}
	if cfg.Seed == 0 {
		t.Error("Seed should be filled from the clock")
	}
}

func TestServer_CreateSearch_InvalidJSON(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	s.handleCreateSearch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestServer_CreateSearch_InvalidConfig(t *testing.T) {
	s := NewServer(":8080", nil)

	// Five access points cannot fit on a 2x2 grid.
	body := []byte(`{"gridSize": 2, "accessPoints": 5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateSearch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestServer_ListSearches(t *testing.T) {
	s := NewServer(":8080", nil)

	s.searchManager.CreateSearch(SearchConfig{GridSize: 10})
	s.searchManager.CreateSearch(SearchConfig{GridSize: 12})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/searches", nil)
	w := httptest.NewRecorder()

	s.handleListSearches(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var searches []*Search
	if err := json.NewDecoder(w.Body).Decode(&searches); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(searches) != 2 {
		t.Errorf("Expected 2 searches, got %d", len(searches))
	}
}

func TestServer_GetSearchStatus(t *testing.T) {
	s := NewServer(":8080", nil)

	search := s.searchManager.CreateSearch(testSearchConfig())

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/searches/%s/status", search.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetSearchStatus(w, req, search.ID)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["id"] != search.ID {
		t.Error("Response should contain search ID")
	}
	if response["state"] != string(StatePending) {
		t.Errorf("Expected pending state, got %v", response["state"])
	}
}

func TestServer_GetSearchStatus_NotFound(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/searches/nonexistent/status", nil)
	w := httptest.NewRecorder()

	s.handleGetSearchStatus(w, req, "nonexistent")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_GetPlacementPNG(t *testing.T) {
	s := NewServer(":8080", nil)

	search := s.searchManager.CreateSearch(testSearchConfig())
	if err := runSearch(context.Background(), s.searchManager, nil, search.ID); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/searches/%s/placement.png", search.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetPlacementPNG(w, req, search.ID)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "image/png" {
		t.Error("Expected image/png content type")
	}

	// Verify it's a valid PNG
	if _, err := png.Decode(w.Body); err != nil {
		t.Errorf("Response should be valid PNG: %v", err)
	}
}

func TestServer_GetPlacementPNG_NoResults(t *testing.T) {
	s := NewServer(":8080", nil)

	search := s.searchManager.CreateSearch(testSearchConfig())

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/searches/%s/placement.png", search.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetPlacementPNG(w, req, search.ID)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 before results exist, got %d", w.Code)
	}
}

func TestServer_GetPlacementHTML(t *testing.T) {
	s := NewServer(":8080", nil)

	search := s.searchManager.CreateSearch(testSearchConfig())
	if err := runSearch(context.Background(), s.searchManager, nil, search.ID); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/searches/%s/placement.html", search.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetPlacementHTML(w, req, search.ID)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Access Point Placement")) {
		t.Error("Response should contain the placement chart")
	}
}

func TestServer_GetScoresHTML(t *testing.T) {
	s := NewServer(":8080", nil)

	search := s.searchManager.CreateSearch(testSearchConfig())
	if err := runSearch(context.Background(), s.searchManager, nil, search.ID); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/searches/%s/scores.html", search.ID), nil)
	w := httptest.NewRecorder()

	s.handleGetScoresHTML(w, req, search.ID)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("running best")) {
		t.Error("Response should contain the running best series")
	}
}

func TestServer_SearchStream(t *testing.T) {
	s := NewServer(":8080", nil)

	cfg := testSearchConfig()
	cfg.Restarts = 50
	search := s.searchManager.CreateSearch(cfg)

	go runSearch(context.Background(), s.searchManager, nil, search.ID)

	// Give the worker a moment to start
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/searches/%s/stream", search.ID), nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	s.handleSearchStream(w, req, search.ID)

	if w.Header().Get("Content-Type") != "text/event-stream" {
		t.Error("Expected text/event-stream content type")
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("data: {")) {
		t.Error("Expected SSE events in response")
	}
}

func TestServer_SearchStream_NotFound(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/searches/nonexistent/stream", nil)
	w := httptest.NewRecorder()

	s.handleSearchStream(w, req, "nonexistent")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestEventBroadcaster(t *testing.T) {
	eb := NewEventBroadcaster()

	// Subscribe to events
	ch := eb.Subscribe("search1")
	defer eb.Unsubscribe("search1", ch)

	// Broadcast an event
	event := ProgressEvent{
		SearchID:  "search1",
		State:     StateRunning,
		Restart:   4,
		Restarts:  10,
		Score:     -16,
		BestScore: -14,
		Timestamp: time.Now(),
	}
	eb.Broadcast(event)

	// Receive event
	select {
	case received := <-ch:
		if received.SearchID != "search1" {
			t.Errorf("Expected searchID search1, got %s", received.SearchID)
		}
		if received.Restart != 4 {
			t.Errorf("Expected restart 4, got %d", received.Restart)
		}
	case <-time.After(1 * time.Second):
		t.Error("Timeout waiting for event")
	}

	// Cleanup
	eb.CleanupSearch("search1")
}

func TestEventBroadcaster_ReplaysLastEvent(t *testing.T) {
	eb := NewEventBroadcaster()

	eb.Broadcast(ProgressEvent{SearchID: "search1", State: StateCompleted, BestScore: -12})

	// A client subscribing after the fact still sees the final state.
	ch := eb.Subscribe("search1")
	defer eb.Unsubscribe("search1", ch)

	select {
	case received := <-ch:
		if received.State != StateCompleted {
			t.Errorf("Expected completed state, got %s", received.State)
		}
	case <-time.After(1 * time.Second):
		t.Error("Timeout waiting for replayed event")
	}
}

func TestServer_Index(t *testing.T) {
	s := NewServer(":8080", nil)

	search := s.searchManager.CreateSearch(testSearchConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	s.handleIndex(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "text/html; charset=utf-8" {
		t.Error("Expected text/html content type")
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(search.ID[:8])) {
		t.Error("Response should contain the search ID prefix")
	}
}

func TestServer_Index_NotFoundPath(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	w := httptest.NewRecorder()

	s.handleIndex(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestServer_History(t *testing.T) {
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open history store: %v", err)
	}
	defer hist.Close()

	s := NewServer(":8080", hist)

	search := s.searchManager.CreateSearch(testSearchConfig())
	if err := runSearch(context.Background(), s.searchManager, hist, search.ID); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	w := httptest.NewRecorder()

	s.handleHistory(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var records []*history.Record
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(records))
	}
}

func TestServer_History_Disabled(t *testing.T) {
	s := NewServer(":8080", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	w := httptest.NewRecorder()

	s.handleHistory(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when history is disabled, got %d", w.Code)
	}
}

func TestServer_CORSMiddleware(t *testing.T) {
	s := NewServer(":8080", nil)

	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/searches", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS origin header")
	}
}

func TestServer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := NewServer("localhost:0", nil)
	srv := httptest.NewServer(s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/searches" && r.Method == http.MethodPost {
			s.handleCreateSearch(w, r)
		} else if r.URL.Path == "/api/v1/searches" && r.Method == http.MethodGet {
			s.handleListSearches(w, r)
		} else {
			s.handleSearchesWithID(w, r)
		}
	})))
	defer srv.Close()

	// Create search
	body, _ := json.Marshal(testSearchConfig())
	resp, err := http.Post(srv.URL+"/api/v1/searches", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to create search: %v", err)
	}
	defer resp.Body.Close()

	var search Search
	json.NewDecoder(resp.Body).Decode(&search)

	// Poll status until completed
	maxAttempts := 50
	for i := 0; i < maxAttempts; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/searches/" + search.ID + "/status")
		if err != nil {
			t.Fatalf("Failed to get status: %v", err)
		}

		var status map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&status)
		resp.Body.Close()

		if status["state"] == string(StateCompleted) {
			break
		}

		if status["state"] == string(StateFailed) {
			t.Fatalf("Search failed: %v", status["error"])
		}

		if i == maxAttempts-1 {
			t.Fatal("Search did not complete in time")
		}

		time.Sleep(100 * time.Millisecond)
	}

	// Get placement image
	resp, err = http.Get(srv.URL + "/api/v1/searches/" + search.ID + "/placement.png")
	if err != nil {
		t.Fatalf("Failed to get placement image: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}
