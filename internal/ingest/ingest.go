// Package ingest turns a buffer of scanned lines into a scored result.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/qrhunt/internal/matcher"
	"github.com/verte-zerg/qrhunt/internal/model"
)

// Hit is a line that resolved to a catalog entity.
type Hit struct {
	Line        string
	Entity      model.Entity
	MutationID  int
	HasMutation bool
}

// Batch is the outcome of processing one buffer.
type Batch struct {
	Entry       model.ResultEntry
	Hits        []Hit
	Diagnostics []string
}

// Timer exposes the start time a batch is measured against.
type Timer interface {
	AnchorTime() (time.Time, bool)
}

// Process parses text line by line and builds the batch result. The elapsed
// time is measured from the timer's start to anchor, the instant the burst
// began, so transcription time is not counted. It returns false for an
// empty buffer. Blank lines are matched like any other line.
func Process(text string, m *matcher.Matcher, timer Timer, anchor time.Time) (Batch, bool) {
	if text == "" {
		return Batch{}, false
	}

	var batch Batch
	seen := map[string]struct{}{}
	for _, line := range splitLines(text) {
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}

		res := m.Match(line)
		switch res.Kind {
		case matcher.NoMatch:
			batch.Diagnostics = append(batch.Diagnostics, fmt.Sprintf("failed to match '%s'", line))
		case matcher.UnknownEntity:
			batch.Diagnostics = append(batch.Diagnostics, fmt.Sprintf("unknown entity '%s'", line))
		case matcher.Resolved:
			batch.Hits = append(batch.Hits, Hit{
				Line:        line,
				Entity:      res.Entity,
				MutationID:  res.MutationID,
				HasMutation: res.HasMutation,
			})
		}
	}

	names := make([]string, 0, len(batch.Hits))
	total := 0
	for _, hit := range batch.Hits {
		names = append(names, hit.Entity.Name)
		total += hit.Entity.Points
	}
	batch.Entry = model.ResultEntry{
		ElapsedSeconds: elapsedSeconds(timer, anchor),
		TotalPoints:    total,
		HitNames:       names,
	}
	return batch, true
}

func elapsedSeconds(timer Timer, anchor time.Time) float64 {
	start, ok := timer.AnchorTime()
	if !ok {
		return 0
	}
	return anchor.Sub(start).Seconds()
}

// splitLines splits on \n, \r\n and \r. Only the empty tail left by a
// single trailing line break is dropped.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
