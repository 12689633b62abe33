// Package history persists terminal job outcomes to SQLite so operators can
// inspect what a session downloaded after the in-memory registry is gone.
// It is optional and never feeds back into live job state.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/colebaker/ytfetch/internal/domain"
)

// Record is one terminal job outcome.
type Record struct {
	SessionID  domain.SessionID `json:"-"`
	JobID      domain.JobID     `json:"job_id"`
	URL        string           `json:"url"`
	Format     string           `json:"format"`
	Quality    string           `json:"quality"`
	State      domain.JobState  `json:"status"`
	Filename   string           `json:"filename,omitempty"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Store is a SQLite-backed append-only archive of Records.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the history database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS job_history (
			session_id TEXT NOT NULL,
			job_id TEXT NOT NULL,
			url TEXT NOT NULL,
			format TEXT NOT NULL,
			quality TEXT NOT NULL,
			state TEXT NOT NULL,
			filename TEXT,
			finished_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, job_id)
		);
		CREATE INDEX IF NOT EXISTS idx_job_history_session ON job_history(session_id, finished_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Record inserts a terminal outcome. Non-terminal states are rejected.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if !rec.State.IsTerminal() {
		return fmt.Errorf("record non-terminal state %q", rec.State)
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO job_history
			(session_id, job_id, url, format, quality, state, filename, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID.String(), rec.JobID.String(), rec.URL, rec.Format,
		rec.Quality, string(rec.State), rec.Filename, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// BySession returns the most recent records for one session, newest first.
func (s *Store) BySession(ctx context.Context, sid domain.SessionID, limit int) ([]Record, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, url, format, quality, state, filename, finished_at
		FROM job_history
		WHERE session_id = ?
		ORDER BY finished_at DESC
		LIMIT ?`,
		sid.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		rec := Record{SessionID: sid}
		var state string
		if err := rows.Scan(&rec.JobID, &rec.URL, &rec.Format, &rec.Quality, &state, &rec.Filename, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.State = domain.JobState(state)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
