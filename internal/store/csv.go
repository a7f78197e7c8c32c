package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/qrhunt/internal/model"
)

// CSVStore appends each entry to <dir>/<YYYY-MM-DD>.csv.
type CSVStore struct {
	dir string
	now func() time.Time
}

// NewCSVStore creates dir if needed.
func NewCSVStore(dir string, now func() time.Time) (*CSVStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("log directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &CSVStore{dir: dir, now: now}, nil
}

// Path returns the log file for the given day.
func (s *CSVStore) Path(day time.Time) string {
	return filepath.Join(s.dir, DayKey(day)+".csv")
}

// Append writes one record to today's file.
func (s *CSVStore) Append(_ context.Context, entry model.ResultEntry) (err error) {
	path := s.Path(s.now())
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open result log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close result log: %w", cerr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(entry.Row()); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush result: %w", err)
	}
	return nil
}

// Day reads all records of the given day. A missing file yields no entries.
func (s *CSVStore) Day(_ context.Context, day time.Time) ([]model.ResultEntry, error) {
	file, err := os.Open(s.Path(day))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open result log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.FieldsPerRecord = 3
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read result log: %w", err)
	}
	entries := make([]model.ResultEntry, 0, len(records))
	for i, rec := range records {
		entry, err := model.ParseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close implements ResultLog. Files are closed after every append.
func (s *CSVStore) Close() error {
	return nil
}
