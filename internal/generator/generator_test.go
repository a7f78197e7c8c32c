package generator

import (
	"testing"

	"github.com/verte-zerg/qrhunt/internal/catalog"
	"github.com/verte-zerg/qrhunt/internal/matcher"
	"github.com/verte-zerg/qrhunt/internal/model"
)

func TestBareCodes(t *testing.T) {
	entities := []model.Entity{{Name: "Deer", Points: 40}, {Name: "Human", Points: -100}}
	codes, err := NewWithSeed(1).Codes(entities, "ZV:", 0)
	if err != nil {
		t.Fatalf("codes: %v", err)
	}
	if len(codes) != 2 || codes[0].Payload != "ZV:Deer" || codes[1].Payload != "ZV:Human" {
		t.Fatalf("unexpected codes: %+v", codes)
	}
}

func TestCopiesAreDistinctAndResolve(t *testing.T) {
	cat := catalog.Default()
	m, err := matcher.New(matcher.DefaultPrefix, cat)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}
	codes, err := NewWithSeed(42).Codes(cat.Entities(), matcher.DefaultPrefix, 5)
	if err != nil {
		t.Fatalf("codes: %v", err)
	}
	if len(codes) != 10 {
		t.Fatalf("expected 10 codes, got %d", len(codes))
	}
	seen := map[string]struct{}{}
	for _, c := range codes {
		if _, dup := seen[c.Payload]; dup {
			t.Fatalf("duplicate payload %q", c.Payload)
		}
		seen[c.Payload] = struct{}{}
		res := m.Match(c.Payload)
		if res.Kind != matcher.Resolved || !res.HasMutation || res.Entity.Name != c.Entity.Name {
			t.Fatalf("payload %q did not resolve to %s: %+v", c.Payload, c.Entity.Name, res)
		}
	}
}

func TestCopiesBounds(t *testing.T) {
	g := NewWithSeed(1)
	if _, err := g.Codes(nil, "ZV:", -1); err == nil {
		t.Fatalf("expected negative copies to fail")
	}
	if _, err := g.Codes(nil, "ZV:", maxMutation+1); err == nil {
		t.Fatalf("expected too many copies to fail")
	}
}
