package rules

import (
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors returned by catalog construction and lookup.
var (
	// ErrUnknownPaper is returned when a paper has no compatibility entry.
	ErrUnknownPaper = errors.New("unknown paper")

	// ErrInvalidCatalog is returned when a catalog definition breaks an invariant.
	ErrInvalidCatalog = errors.New("invalid rule catalog")
)

var trimSizePattern = regexp.MustCompile(`^[1-9][0-9]*x[1-9][0-9]*$`)

// Set is an immutable string set that remembers declaration order.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet builds a set from items, keeping the first occurrence of duplicates.
func NewSet(items ...string) Set {
	s := Set{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
	}
	return s
}

// Has reports exact, case-sensitive membership.
func (s Set) Has(v string) bool {
	_, ok := s.index[v]
	return ok
}

// Values returns the members in declaration order.
func (s Set) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.items)
}

// Compatibility lists the colours and routes a paper stock can be printed with.
type Compatibility struct {
	Colours Set
	Routes  Set
}

// Catalog holds the publishing-production rules. It is never mutated after New.
type Catalog struct {
	Bindings  Set
	Papers    Set
	Colours   Set
	Routes    Set
	TrimSizes Set

	compatibility map[string]Compatibility
}

// New builds a catalog from a definition and checks its invariants.
func New(def Definition) (*Catalog, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}

	papers := make([]string, 0, len(def.Papers))
	compat := make(map[string]Compatibility, len(def.Papers))
	for _, p := range def.Papers {
		papers = append(papers, p.Name)
		compat[p.Name] = Compatibility{
			Colours: NewSet(p.Colours...),
			Routes:  NewSet(p.Routes...),
		}
	}

	return &Catalog{
		Bindings:      NewSet(def.Bindings...),
		Papers:        NewSet(papers...),
		Colours:       NewSet(def.Colours...),
		Routes:        NewSet(def.Routes...),
		TrimSizes:     NewSet(def.TrimSizes...),
		compatibility: compat,
	}, nil
}

// MustNew is like New but panics on an invalid definition.
func MustNew(def Definition) *Catalog {
	c, err := New(def)
	if err != nil {
		panic(err)
	}
	return c
}

// CompatibilityFor returns the allowed colours and routes for paper.
func (c *Catalog) CompatibilityFor(paper string) (Compatibility, error) {
	compat, ok := c.compatibility[paper]
	if !ok {
		return Compatibility{}, fmt.Errorf("%w: %q", ErrUnknownPaper, paper)
	}
	return compat, nil
}

// Definition returns the catalog in its serialisable shape.
func (c *Catalog) Definition() Definition {
	def := Definition{
		Bindings:  c.Bindings.Values(),
		Colours:   c.Colours.Values(),
		Routes:    c.Routes.Values(),
		TrimSizes: c.TrimSizes.Values(),
	}
	for _, name := range c.Papers.Values() {
		compat := c.compatibility[name]
		def.Papers = append(def.Papers, PaperRule{
			Name:    name,
			Colours: compat.Colours.Values(),
			Routes:  compat.Routes.Values(),
		})
	}
	return def
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}
