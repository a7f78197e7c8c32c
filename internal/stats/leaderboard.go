package stats

import (
	"sort"

	"github.com/verte-zerg/qrhunt/internal/model"
)

// Ranked is an entry with its position in the day's log.
type Ranked struct {
	Index int
	Entry model.ResultEntry
}

// Leaderboard returns the top n entries by points, faster time first on ties,
// then earlier submission. n <= 0 returns all entries.
func Leaderboard(entries []model.ResultEntry, n int) []Ranked {
	if len(entries) == 0 {
		return nil
	}
	items := make([]Ranked, 0, len(entries))
	for i, e := range entries {
		items = append(items, Ranked{Index: i + 1, Entry: e})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Entry, items[j].Entry
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.ElapsedSeconds != b.ElapsedSeconds {
			return a.ElapsedSeconds < b.ElapsedSeconds
		}
		return items[i].Index < items[j].Index
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
