// Package matcher parses scanned lines into catalog hits.
package matcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/verte-zerg/qrhunt/internal/catalog"
	"github.com/verte-zerg/qrhunt/internal/model"
)

// DefaultPrefix is the literal every scan code starts with.
const DefaultPrefix = "ZV:"

// Kind classifies a parsed line.
type Kind int

const (
	// NoMatch means the line does not fit the code grammar.
	NoMatch Kind = iota
	// UnknownEntity means the grammar matched but the name is not in the catalog.
	UnknownEntity
	// Resolved means the line names a catalog entity.
	Resolved
)

// Result is the outcome of matching one line.
type Result struct {
	Kind        Kind
	Name        string
	Entity      model.Entity
	MutationID  int
	HasMutation bool
}

// Matcher matches lines of the form <prefix><name>[:<mutation id>].
type Matcher struct {
	re      *regexp.Regexp
	catalog *catalog.Catalog
}

// New builds a matcher for the given prefix and catalog.
func New(prefix string, cat *catalog.Catalog) (*Matcher, error) {
	if prefix == "" {
		return nil, fmt.Errorf("code prefix is empty")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	re, err := regexp.Compile(`^` + regexp.QuoteMeta(prefix) + `([` + catalog.NameChars + `]+)(?::([0-9]+))?$`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile code pattern: %w", err)
	}
	return &Matcher{re: re, catalog: cat}, nil
}

// Match parses a single line.
func (m *Matcher) Match(line string) Result {
	groups := m.re.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
	if groups == nil {
		return Result{Kind: NoMatch}
	}
	res := Result{Kind: UnknownEntity, Name: groups[1]}
	if groups[2] != "" {
		res.HasMutation = true
		// ids past int range keep MutationID at 0; dedup works on the raw line
		if id, err := strconv.Atoi(groups[2]); err == nil {
			res.MutationID = id
		}
	}
	entity, ok := m.catalog.Lookup(res.Name)
	if !ok {
		return res
	}
	res.Kind = Resolved
	res.Entity = entity
	return res
}
