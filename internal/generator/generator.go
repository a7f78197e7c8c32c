// Package generator builds the payloads printed on scan codes.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/qrhunt/internal/model"
)

// maxMutation bounds random mutation ids so payloads stay short.
const maxMutation = 10000

// Code is one printable payload.
type Code struct {
	Entity  model.Entity
	Payload string
}

// Generator produces scan payloads.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Codes returns payloads for every entity in order. With copies == 0 each
// entity gets the bare "<prefix><name>" payload; otherwise it gets copies
// payloads with distinct random mutation ids, so every printed copy scores
// separately.
func (g *Generator) Codes(entities []model.Entity, prefix string, copies int) ([]Code, error) {
	if copies < 0 {
		return nil, fmt.Errorf("copies must be >= 0")
	}
	if copies > maxMutation {
		return nil, fmt.Errorf("copies must be <= %d", maxMutation)
	}
	out := make([]Code, 0, len(entities)*max(copies, 1))
	for _, e := range entities {
		if copies == 0 {
			out = append(out, Code{Entity: e, Payload: prefix + e.Name})
			continue
		}
		for _, id := range g.mutationIDs(copies) {
			out = append(out, Code{Entity: e, Payload: fmt.Sprintf("%s%s:%d", prefix, e.Name, id)})
		}
	}
	return out, nil
}

func (g *Generator) mutationIDs(n int) []int {
	perm := g.rnd.Perm(maxMutation)
	return perm[:n]
}
