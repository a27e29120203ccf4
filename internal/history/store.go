// Package history persists completed placement searches to SQLite so past
// results can be listed, inspected, and re-rendered.
package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gridlab-ge/apclimb/internal/place"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is a sentinel for errors.Is checks against lookups of
// unknown search IDs.
var ErrNotFound = &NotFoundError{}

// NotFoundError indicates that no stored search matches the requested ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return "search not found"
	}
	return fmt.Sprintf("search %s not found", e.ID)
}

// Is reports a match for any NotFoundError regardless of ID, so callers
// can test errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// Record is one completed search: the instance parameters, the winning
// placement, and the score statistics.
type Record struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"createdAt"`
	GridSize     int              `json:"gridSize"`
	Clients      int              `json:"clients"` // requested count, before dedup
	AccessPoints int              `json:"accessPoints"`
	Restarts     int              `json:"restarts"`
	MaxSteps     int              `json:"maxSteps"`
	Seed         int64            `json:"seed"`
	BestScore    float64          `json:"bestScore"`
	BestRestart  int              `json:"bestRestart"`
	MeanScore    float64          `json:"meanScore"`
	StdDevScore  float64          `json:"stdDevScore"`
	UniqueScores int              `json:"uniqueScores"`
	Improvements int              `json:"improvements"`
	Elapsed      time.Duration    `json:"elapsed"`
	Placement    place.Placement  `json:"placement"`
	ClientSet    []place.Position `json:"clientSet"`
}

// Store wraps the SQLite database holding past searches.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a completed search. An empty ID is filled with a fresh
// UUID and a zero CreatedAt with the current time; both are written back
// to rec. Timestamps are stored at millisecond precision.
func (s *Store) Insert(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.CreatedAt = rec.CreatedAt.Truncate(time.Millisecond)

	placementJSON, err := json.Marshal(rec.Placement)
	if err != nil {
		return fmt.Errorf("failed to encode placement: %w", err)
	}
	clientsJSON, err := json.Marshal(rec.ClientSet)
	if err != nil {
		return fmt.Errorf("failed to encode client set: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO searches (
			id, created_at, grid_size, clients, access_points,
			restarts, max_steps, seed, best_score, best_restart,
			mean_score, stddev_score, unique_scores, improvements,
			elapsed_ms, placement_json, clients_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UnixMilli(), rec.GridSize, rec.Clients, rec.AccessPoints,
		rec.Restarts, rec.MaxSteps, rec.Seed, rec.BestScore, rec.BestRestart,
		rec.MeanScore, rec.StdDevScore, rec.UniqueScores, rec.Improvements,
		rec.Elapsed.Milliseconds(), string(placementJSON), string(clientsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert search record: %w", err)
	}
	return nil
}

// Get returns the stored search with the given ID.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, created_at, grid_size, clients, access_points,
		       restarts, max_steps, seed, best_score, best_restart,
		       mean_score, stddev_score, unique_scores, improvements,
		       elapsed_ms, placement_json, clients_json
		FROM searches WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load search record: %w", err)
	}
	return rec, nil
}

// List returns stored searches, newest first. A non-positive limit returns
// every record.
func (s *Store) List(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, grid_size, clients, access_points,
		       restarts, max_steps, seed, best_score, best_restart,
		       mean_score, stddev_score, unique_scores, improvements,
		       elapsed_ms, placement_json, clients_json
		FROM searches ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search records: %w", err)
	}
	return records, nil
}

// Delete removes the stored search with the given ID.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM searches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete search record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var (
		rec           Record
		createdMS     int64
		elapsedMS     int64
		placementJSON string
		clientsJSON   string
	)
	err := s.Scan(
		&rec.ID, &createdMS, &rec.GridSize, &rec.Clients, &rec.AccessPoints,
		&rec.Restarts, &rec.MaxSteps, &rec.Seed, &rec.BestScore, &rec.BestRestart,
		&rec.MeanScore, &rec.StdDevScore, &rec.UniqueScores, &rec.Improvements,
		&elapsedMS, &placementJSON, &clientsJSON,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = time.UnixMilli(createdMS).UTC()
	rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if err := json.Unmarshal([]byte(placementJSON), &rec.Placement); err != nil {
		return nil, fmt.Errorf("failed to decode placement: %w", err)
	}
	if err := json.Unmarshal([]byte(clientsJSON), &rec.ClientSet); err != nil {
		return nil, fmt.Errorf("failed to decode client set: %w", err)
	}
	return &rec, nil
}
