package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Record is one append-only audit entry for a full adjudication run. Payload
// holds the complete serialized pipeline output as plain nested key/value data.
type Record struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Query            string    `json:"query"`
	RegimeID         string    `json:"regime_id"`
	PrimaryScenario  string    `json:"primary_scenario"`
	ConflictDetected bool      `json:"conflict_detected"`
	FinalOffset      float64   `json:"final_offset"`
	Stocks           int       `json:"stocks"`
	Payload          string    `json:"payload"`
}

// Repository persists adjudication audit records. Records are only ever
// inserted and read back, never updated.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new audit repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "audit").Logger(),
	}
}

// Migrate creates the audit table if it does not exist.
func (r *Repository) Migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS adjudications (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			query TEXT NOT NULL,
			regime_id TEXT NOT NULL,
			primary_scenario TEXT NOT NULL DEFAULT '',
			conflict_detected INTEGER NOT NULL DEFAULT 0,
			final_offset REAL NOT NULL DEFAULT 0,
			stocks INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL
		)
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create adjudications table: %w", err)
	}
	return nil
}

// Save appends a record. The payload must already be serializable as plain
// nested key/value data; it is stored as JSON.
func (r *Repository) Save(query, regimeID, primaryScenario string, conflict bool, finalOffset float64, stocks int, payload interface{}) (*Record, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize audit payload: %w", err)
	}

	rec := &Record{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		Query:            query,
		RegimeID:         regimeID,
		PrimaryScenario:  primaryScenario,
		ConflictDetected: conflict,
		FinalOffset:      finalOffset,
		Stocks:           stocks,
		Payload:          string(raw),
	}

	insert := `
		INSERT INTO adjudications (
			id, created_at, query, regime_id, primary_scenario,
			conflict_detected, final_offset, stocks, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(
		insert,
		rec.ID,
		rec.CreatedAt.Format(time.RFC3339),
		rec.Query,
		rec.RegimeID,
		rec.PrimaryScenario,
		boolToInt(rec.ConflictDetected),
		rec.FinalOffset,
		rec.Stocks,
		rec.Payload,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert audit record: %w", err)
	}

	return rec, nil
}

// Recent returns the most recent records, newest first.
func (r *Repository) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, created_at, query, regime_id, primary_scenario,
		       conflict_detected, final_offset, stocks, payload
		FROM adjudications
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt string
		var conflict int
		if err := rows.Scan(
			&rec.ID,
			&createdAt,
			&rec.Query,
			&rec.RegimeID,
			&rec.PrimaryScenario,
			&conflict,
			&rec.FinalOffset,
			&rec.Stocks,
			&rec.Payload,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.ConflictDetected = conflict != 0
		records = append(records, rec)
	}

	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
