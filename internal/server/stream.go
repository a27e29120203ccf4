package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ProgressEvent reports one restart of a running search
type ProgressEvent struct {
	SearchID  string      `json:"searchId"`
	State     SearchState `json:"state"`
	Restart   int         `json:"restart"`
	Restarts  int         `json:"restarts"`
	Score     float64     `json:"score"`
	BestScore float64     `json:"bestScore"`
	Improved  bool        `json:"improved"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventBroadcaster manages SSE connections for a search
type EventBroadcaster struct {
	mu        sync.RWMutex
	clients   map[string]map[chan ProgressEvent]bool // searchID -> set of client channels
	lastEvent map[string]ProgressEvent               // searchID -> last event for new clients
}

// NewEventBroadcaster creates a new event broadcaster
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		clients:   make(map[string]map[chan ProgressEvent]bool),
		lastEvent: make(map[string]ProgressEvent),
	}
}

// Subscribe adds a client to receive events for a search
func (eb *EventBroadcaster) Subscribe(searchID string) chan ProgressEvent {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan ProgressEvent, 10) // Buffered to prevent blocking

	if eb.clients[searchID] == nil {
		eb.clients[searchID] = make(map[chan ProgressEvent]bool)
	}
	eb.clients[searchID][ch] = true

	// Send last event if available (for reconnecting clients)
	if lastEvent, ok := eb.lastEvent[searchID]; ok {
		select {
		case ch <- lastEvent:
		default:
			// Channel full, skip
		}
	}

	slog.Debug("SSE client subscribed", "search_id", searchID, "total_clients", len(eb.clients[searchID]))
	return ch
}

// Unsubscribe removes a client from receiving events
func (eb *EventBroadcaster) Unsubscribe(searchID string, ch chan ProgressEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if clients, ok := eb.clients[searchID]; ok {
		delete(clients, ch)
		close(ch)

		if len(clients) == 0 {
			delete(eb.clients, searchID)
		}
	}

	slog.Debug("SSE client unsubscribed", "search_id", searchID)
}

// Broadcast sends an event to all subscribed clients for a search. It
// takes the write lock because the event is also cached for reconnects.
func (eb *EventBroadcaster) Broadcast(event ProgressEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	// Store last event
	eb.lastEvent[event.SearchID] = event

	clients, ok := eb.clients[event.SearchID]
	if !ok || len(clients) == 0 {
		return
	}

	slog.Debug("Broadcasting event", "search_id", event.SearchID, "clients", len(clients), "restart", event.Restart)

	for ch := range clients {
		select {
		case ch <- event:
			// Event sent successfully
		default:
			// Channel full, skip this client (prevents blocking)
			slog.Warn("SSE channel full, skipping event", "search_id", event.SearchID)
		}
	}
}

// CleanupSearch removes all clients and cached events for a search
func (eb *EventBroadcaster) CleanupSearch(searchID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if clients, ok := eb.clients[searchID]; ok {
		for ch := range clients {
			close(ch)
		}
		delete(eb.clients, searchID)
	}

	delete(eb.lastEvent, searchID)
	slog.Debug("Cleaned up SSE resources", "search_id", searchID)
}

// handleSearchStream handles SSE connections for search progress
func (s *Server) handleSearchStream(w http.ResponseWriter, r *http.Request, searchID string) {
	search, exists := s.searchManager.GetSearch(searchID)
	if !exists {
		http.Error(w, "Search not found", http.StatusNotFound)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// Subscribe to events
	eventChan := s.searchManager.broadcaster.Subscribe(searchID)
	defer s.searchManager.broadcaster.Unsubscribe(searchID, eventChan)

	// Send initial event with current search state
	initialEvent := ProgressEvent{
		SearchID:  search.ID,
		State:     search.State,
		Restart:   search.RestartsDone,
		Restarts:  search.Config.Restarts,
		Score:     search.BestScore,
		BestScore: search.BestScore,
		Timestamp: time.Now(),
	}

	if err := writeSSEEvent(w, initialEvent); err != nil {
		slog.Error("Failed to write initial SSE event", "error", err)
		return
	}
	flusher.Flush()

	// Set up ping ticker to keep connection alive
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	// Listen for events and client disconnect
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			slog.Debug("SSE client disconnected", "search_id", searchID)
			return

		case event, ok := <-eventChan:
			if !ok {
				// Channel closed
				return
			}

			if err := writeSSEEvent(w, event); err != nil {
				slog.Error("Failed to write SSE event", "error", err)
				return
			}
			flusher.Flush()

		case <-pingTicker.C:
			// Send ping to keep connection alive
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes an event in SSE format
func writeSSEEvent(w http.ResponseWriter, event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// SSE format: "data: {json}\n\n"
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
