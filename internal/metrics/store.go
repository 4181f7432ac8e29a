// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

// PersistenceError wraps a failed metrics write or read. Metrics are
// best-effort: callers display the error and move on.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("metrics %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func wrapErr(op string, err error) error {
	return &PersistenceError{Op: op, Cause: err}
}

// =============================================================================
// TYPES
// =============================================================================

// Status tracks whether a drafted message was delivered. It moves from
// unknown to sent or failed exactly once, when the send resolves.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Interaction is one recorded AI completion attempt.
type Interaction struct {
	ID             string
	PromptSlug     string
	Content        string
	Context        string
	Response       string
	Model          string
	ResponseTimeMs int64
	SentStatus     Status
	CreatedAt      time.Time
}

// Feedback is a user judgment on an interaction's draft.
type Feedback struct {
	InteractionID string
	Positive      bool
	Note          string
}

// Summary holds the aggregate counters reported to the UI.
type Summary struct {
	TotalInteractions int
	PerSlug           map[string]int
	SentCount         int
	FailedCount       int
	UnknownCount      int
	PositiveFeedback  int
	NegativeFeedback  int

	// ErrorRate is failed sends over resolved sends (sent+failed).
	ErrorRate float64

	// DeliveryRate is sent over all interactions.
	DeliveryRate float64

	Recent []Interaction
}

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
    id               TEXT PRIMARY KEY,
    prompt_slug      TEXT NOT NULL DEFAULT '',
    content          TEXT NOT NULL,
    context          TEXT NOT NULL,
    response         TEXT NOT NULL,
    model            TEXT NOT NULL,
    response_time_ms INTEGER NOT NULL,
    sent_status      TEXT NOT NULL DEFAULT 'unknown',
    created_at       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
    interaction_id TEXT PRIMARY KEY REFERENCES interactions(id),
    positive       INTEGER NOT NULL,
    note           TEXT NOT NULL DEFAULT '',
    created_at     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at);
CREATE INDEX IF NOT EXISTS idx_interactions_slug ON interactions(prompt_slug);
`

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite-backed metrics sink.
type Store struct {
	db *sql.DB
}

// Open creates or opens the metrics database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, wrapErr("open", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapErr("open", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, wrapErr("pragma", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, wrapErr("schema", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// RECORDING
// =============================================================================

// RecordInteraction inserts an interaction. The caller assigns the id;
// a zero CreatedAt is stamped with the current time.
func (s *Store) RecordInteraction(in Interaction) error {
	if in.SentStatus == "" {
		in.SentStatus = StatusUnknown
	}
	created := in.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO interactions
			(id, prompt_slug, content, context, response, model, response_time_ms, sent_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.PromptSlug, in.Content, in.Context, in.Response,
		in.Model, in.ResponseTimeMs, string(in.SentStatus), created.Unix(),
	)
	if err != nil {
		return wrapErr("record interaction", err)
	}
	return nil
}

// UpdateSendStatus resolves an interaction's delivery outcome.
func (s *Store) UpdateSendStatus(id string, status Status) error {
	_, err := s.db.Exec(
		`UPDATE interactions SET sent_status = ? WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return wrapErr("update status", err)
	}
	return nil
}

// RecordFeedback attaches feedback to an interaction. Repeated feedback
// for the same interaction overwrites: last write wins.
func (s *Store) RecordFeedback(id string, positive bool, note string) error {
	_, err := s.db.Exec(`
		INSERT INTO feedback (interaction_id, positive, note, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(interaction_id) DO UPDATE SET
			positive = excluded.positive,
			note = excluded.note,
			created_at = excluded.created_at`,
		id, boolToInt(positive), note, time.Now().Unix(),
	)
	if err != nil {
		return wrapErr("record feedback", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Metrics computes the aggregate counters, including the most recent
// `recent` interactions (newest first).
func (s *Store) Metrics(recent int) (*Summary, error) {
	sum := &Summary{PerSlug: make(map[string]int)}

	rows, err := s.db.Query(`
		SELECT prompt_slug, sent_status, COUNT(*)
		FROM interactions
		GROUP BY prompt_slug, sent_status`)
	if err != nil {
		return nil, wrapErr("aggregate", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slug, status string
		var count int
		if err := rows.Scan(&slug, &status, &count); err != nil {
			return nil, wrapErr("aggregate", err)
		}

		sum.TotalInteractions += count
		if slug != "" {
			sum.PerSlug[slug] += count
		}
		switch Status(status) {
		case StatusSent:
			sum.SentCount += count
		case StatusFailed:
			sum.FailedCount += count
		default:
			sum.UnknownCount += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("aggregate", err)
	}

	if resolved := sum.SentCount + sum.FailedCount; resolved > 0 {
		sum.ErrorRate = float64(sum.FailedCount) / float64(resolved)
	}
	if sum.TotalInteractions > 0 {
		sum.DeliveryRate = float64(sum.SentCount) / float64(sum.TotalInteractions)
	}

	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM feedback WHERE positive = 1`,
	).Scan(&sum.PositiveFeedback); err != nil {
		return nil, wrapErr("aggregate", err)
	}
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM feedback WHERE positive = 0`,
	).Scan(&sum.NegativeFeedback); err != nil {
		return nil, wrapErr("aggregate", err)
	}

	if recent > 0 {
		list, err := s.recentInteractions(recent)
		if err != nil {
			return nil, err
		}
		sum.Recent = list
	}

	return sum, nil
}

func (s *Store) recentInteractions(limit int) ([]Interaction, error) {
	rows, err := s.db.Query(`
		SELECT id, prompt_slug, content, context, response, model,
		       response_time_ms, sent_status, created_at
		FROM interactions
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, wrapErr("recent", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		var status string
		var created int64
		if err := rows.Scan(&in.ID, &in.PromptSlug, &in.Content, &in.Context,
			&in.Response, &in.Model, &in.ResponseTimeMs, &status, &created); err != nil {
			return nil, wrapErr("recent", err)
		}
		in.SentStatus = Status(status)
		in.CreatedAt = time.Unix(created, 0)
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("recent", err)
	}
	return out, nil
}

// GetFeedback returns the feedback attached to an interaction, if any.
func (s *Store) GetFeedback(id string) (*Feedback, error) {
	var fb Feedback
	var positive int
	err := s.db.QueryRow(
		`SELECT interaction_id, positive, note FROM feedback WHERE interaction_id = ?`,
		id,
	).Scan(&fb.InteractionID, &positive, &fb.Note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get feedback", err)
	}
	fb.Positive = positive == 1
	return &fb, nil
}
