// Package catalog holds the fixed table of scannable entities.
package catalog

import (
	"fmt"
	"sort"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/qrhunt/internal/model"
)

// Catalog maps entity names to entities. It is immutable after construction
// and safe to share between sessions.
type Catalog struct {
	byName map[string]model.Entity
	sorted []model.Entity
}

// NameChars is the regexp character class of entity names: letters, marks,
// numbers and underscore. ValidName accepts exactly these runes.
const NameChars = `\p{L}\p{M}\p{N}_`

var defaultEntities = []model.Entity{
	{Name: "Srnec", Points: 10},
	{Name: "Clovek", Points: -10},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultEntities)
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog, rejecting empty, malformed and duplicate names.
func New(entities []model.Entity) (*Catalog, error) {
	if len(entities) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	c := &Catalog{byName: make(map[string]model.Entity, len(entities))}
	for _, e := range entities {
		if !ValidName(e.Name) {
			return nil, fmt.Errorf("invalid entity name %q", e.Name)
		}
		key := norm.NFC.String(e.Name)
		if _, ok := c.byName[key]; ok {
			return nil, fmt.Errorf("duplicate entity %q", e.Name)
		}
		e.Name = key
		c.byName[key] = e
		c.sorted = append(c.sorted, e)
	}
	sort.Slice(c.sorted, func(i, j int) bool {
		return c.sorted[i].Name < c.sorted[j].Name
	})
	return c, nil
}

// Lookup resolves a name exactly and case-sensitively. Composed and
// decomposed spellings of the same name are treated as equal.
func (c *Catalog) Lookup(name string) (model.Entity, bool) {
	e, ok := c.byName[norm.NFC.String(name)]
	return e, ok
}

// Entities returns the entities sorted by name.
func (c *Catalog) Entities() []model.Entity {
	out := make([]model.Entity, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// Len returns the number of entities.
func (c *Catalog) Len() int {
	return len(c.sorted)
}

// ValidName reports whether name only contains runes from NameChars.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r == '_' || unicode.In(r, unicode.Letter, unicode.Mark, unicode.Number) {
			continue
		}
		return false
	}
	return true
}
