package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/qrhunt/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps results in a single table keyed by day.
type SQLiteStore struct {
	db      *sql.DB
	now     func() time.Time
	roundID string
}

// NewSQLiteStore opens or creates the SQLite database and applies migrations.
func NewSQLiteStore(path string, now func() time.Time) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// appends stay strictly ordered on one connection
	db.SetMaxOpenConns(1)
	if now == nil {
		now = time.Now
	}
	store := &SQLiteStore{db: db, now: now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// SetRound tags subsequent appends with a round id.
func (s *SQLiteStore) SetRound(id string) {
	s.roundID = id
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			day TEXT NOT NULL,
			round_id TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			elapsed_seconds REAL NOT NULL,
			total_points INTEGER NOT NULL,
			hits TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_day ON results(day, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append stores one entry under today's day key.
func (s *SQLiteStore) Append(ctx context.Context, entry model.ResultEntry) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (day, round_id, recorded_at, elapsed_seconds, total_points, hits)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		DayKey(now),
		s.roundID,
		now.Format(time.RFC3339Nano),
		entry.ElapsedSeconds,
		entry.TotalPoints,
		strings.Join(entry.HitNames, " "),
	)
	return err
}

// Day returns the entries of a day in append order.
func (s *SQLiteStore) Day(ctx context.Context, day time.Time) ([]model.ResultEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT elapsed_seconds, total_points, hits
		FROM results
		WHERE day = ?
		ORDER BY id ASC`, DayKey(day))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ResultEntry
	for rows.Next() {
		var entry model.ResultEntry
		var hits string
		if err := rows.Scan(&entry.ElapsedSeconds, &entry.TotalPoints, &hits); err != nil {
			return nil, err
		}
		entry.HitNames = strings.Fields(hits)
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Rounds summarizes the rounds recorded on a day, oldest first.
func (s *SQLiteStore) Rounds(ctx context.Context, day time.Time) ([]RoundSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round_id, COUNT(*), SUM(total_points), MAX(elapsed_seconds)
		FROM results
		WHERE day = ?
		GROUP BY round_id
		ORDER BY MIN(id) ASC`, DayKey(day))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []RoundSummary
	for rows.Next() {
		var r RoundSummary
		if err := rows.Scan(&r.ID, &r.Submissions, &r.TotalPoints, &r.LastElapsed); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}
