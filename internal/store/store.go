// Package store persists result entries, one day at a time.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/qrhunt/internal/model"
)

const (
	// EngineCSV writes one CSV file per day.
	EngineCSV = "csv"
	// EngineSQLite writes rows keyed by day into a SQLite database.
	EngineSQLite = "sqlite"
)

const dayLayout = "2006-01-02"

// ErrUnknownEngine is returned for unsupported engine names.
var ErrUnknownEngine = errors.New("unsupported store engine")

// ResultLog is an append-only record of result entries. Appends are
// synchronous and keep call order.
type ResultLog interface {
	Append(ctx context.Context, entry model.ResultEntry) error
	Close() error
}

// DayReader reads back the entries recorded on a calendar day.
type DayReader interface {
	Day(ctx context.Context, day time.Time) ([]model.ResultEntry, error)
}

// RoundSummary aggregates the submissions of one round.
type RoundSummary struct {
	ID          string
	Submissions int
	TotalPoints int
	LastElapsed float64
}

// RoundReader is implemented by engines that record round ids.
type RoundReader interface {
	Rounds(ctx context.Context, day time.Time) ([]RoundSummary, error)
}

// Store is a ResultLog that can also be read back.
type Store interface {
	ResultLog
	DayReader
}

// NewByEngine opens the store for engine. location is a directory for csv
// and a database file for sqlite. A nil clock uses time.Now.
func NewByEngine(engine, location string, now func() time.Time) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineCSV:
		return NewCSVStore(location, now)
	case EngineSQLite:
		return NewSQLiteStore(location, now)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, engine)
	}
}

// DayKey formats the storage key for the calendar day of t in local time.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD day in local time.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, s, time.Local)
}
