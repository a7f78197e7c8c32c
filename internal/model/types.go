// Package model defines shared data structures.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entity is a catalog item a scanned code can resolve to.
type Entity struct {
	Name   string
	Points int
}

// Config defines hunt settings after flags and the config file are merged.
type Config struct {
	Prefix      string `flag:"prefix" validate:"required,max=32"`
	DebounceMs  int    `flag:"debounce-ms" validate:"gte=1,lte=10000"`
	Engine      string `flag:"engine" validate:"oneof=csv sqlite"`
	LogDir      string `flag:"log-dir" validate:"required_if=Engine csv"`
	DBPath      string `flag:"db" validate:"required_if=Engine sqlite"`
	CatalogFile string `flag:"catalog"`
	LogLevel    string `flag:"log-level" validate:"omitempty,oneof=trace debug info warn error"`
	Catalog     []Entity
}

// Debounce returns the quiet period as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ResultsConfig defines filters for the results report.
type ResultsConfig struct {
	Day time.Time
	Top int
}

// ResultEntry is one processed batch.
type ResultEntry struct {
	ElapsedSeconds float64
	TotalPoints    int
	HitNames       []string
}

// Row returns the persisted record fields: elapsed seconds with two decimals,
// signed points and space-joined hit names.
func (e ResultEntry) Row() []string {
	return []string{
		strconv.FormatFloat(e.ElapsedSeconds, 'f', 2, 64),
		strconv.Itoa(e.TotalPoints),
		strings.Join(e.HitNames, " "),
	}
}

// ParseRow is the inverse of Row.
func ParseRow(fields []string) (ResultEntry, error) {
	if len(fields) != 3 {
		return ResultEntry{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	elapsed, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return ResultEntry{}, fmt.Errorf("invalid elapsed time %q: %w", fields[0], err)
	}
	points, err := strconv.Atoi(fields[1])
	if err != nil {
		return ResultEntry{}, fmt.Errorf("invalid points %q: %w", fields[1], err)
	}
	return ResultEntry{
		ElapsedSeconds: elapsed,
		TotalPoints:    points,
		HitNames:       strings.Fields(fields[2]),
	}, nil
}
