package stats

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/qrhunt/internal/model"
)

// EntityLookup resolves entity names to catalog entries.
type EntityLookup interface {
	Lookup(name string) (model.Entity, bool)
}

// HitGroup counts the hits on one entity within an entry.
type HitGroup struct {
	Name   string
	Count  int
	Points int
}

// GroupHits collapses an entry's hit names into per-entity counts sorted by
// name. Names missing from the catalog score zero.
func GroupHits(entry model.ResultEntry, cat EntityLookup) []HitGroup {
	counts := map[string]int{}
	for _, name := range entry.HitNames {
		counts[name]++
	}
	groups := make([]HitGroup, 0, len(counts))
	for name, count := range counts {
		points := 0
		if cat != nil {
			if e, ok := cat.Lookup(name); ok {
				points = e.Points
			}
		}
		groups = append(groups, HitGroup{Name: name, Count: count, Points: points * count})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// FormatPoints renders points with an explicit sign for positive values.
func FormatPoints(points int) string {
	if points > 0 {
		return fmt.Sprintf("+%d", points)
	}
	return fmt.Sprintf("%d", points)
}

// FormatGroup renders a group as "  2x - Deer       +80".
func FormatGroup(g HitGroup) string {
	return fmt.Sprintf("%3dx - %-8s %5s", g.Count, g.Name, FormatPoints(g.Points))
}
