// Package core implements the pattern alignment and scoring engine.
package core

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/bcat/schema"
)

// Sentinel errors surfaced by the engine.
var (
	// ErrUnknownPattern means an explicit pattern reference matched no
	// catalog entry by id, name, or order.
	ErrUnknownPattern = errors.New("unknown pattern")

	// ErrInvalidCatalog means the catalog data itself is broken. This is a
	// startup-time configuration error; the process must refuse to start.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// RefKind discriminates the forms a pattern reference can take.
type RefKind int

// All reference kinds.
const (
	RefByID RefKind = iota
	RefByName
	RefByOrder
)

// PatternRef is a tagged reference to a catalog entry. The ambiguity between
// the three reference forms is resolved once, here at the catalog boundary,
// instead of leaking if-chains into the alignment and scoring code.
type PatternRef struct {
	kind RefKind
	num  int
	name string
}

// IDRef references a pattern by its stable id.
func IDRef(id int) PatternRef { return PatternRef{kind: RefByID, num: id} }

// NameRef references a pattern by its unique name.
func NameRef(name string) PatternRef { return PatternRef{kind: RefByName, name: name} }

// OrderRef references a pattern by its display order.
func OrderRef(order int) PatternRef { return PatternRef{kind: RefByOrder, num: order} }

// ParseRef turns a raw user-supplied string into a tagged reference.
// Numeric strings resolve by id first, falling back to order when no id
// matches; everything else is a case-insensitive name lookup.
func ParseRef(raw string) PatternRef {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return IDRef(n)
	}
	return NameRef(raw)
}

// String renders the reference for error messages.
func (r PatternRef) String() string {
	switch r.kind {
	case RefByName:
		return r.name
	case RefByOrder:
		return fmt.Sprintf("order %d", r.num)
	default:
		return strconv.Itoa(r.num)
	}
}

// Catalog is the immutable set of patterns the engine scores against.
// It is constructed once at startup and shared read-only by all requests;
// tests substitute smaller fixture catalogs.
type Catalog struct {
	ordered []schema.Pattern
	byID    map[int]*schema.Pattern
	byName  map[string]*schema.Pattern
	byOrder map[int]*schema.Pattern
}

// NewCatalog validates and indexes a pattern set. Duplicate ids, names, or
// orders, an empty set, or a pattern with no positively weighted metric are
// all fatal configuration errors.
func NewCatalog(patterns []schema.Pattern) (*Catalog, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: catalog has no patterns", ErrInvalidCatalog)
	}

	c := &Catalog{
		ordered: make([]schema.Pattern, len(patterns)),
		byID:    make(map[int]*schema.Pattern, len(patterns)),
		byName:  make(map[string]*schema.Pattern, len(patterns)),
		byOrder: make(map[int]*schema.Pattern, len(patterns)),
	}
	copy(c.ordered, patterns)
	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].Order < c.ordered[j].Order
	})

	for i := range c.ordered {
		p := &c.ordered[i]

		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate pattern id %d", ErrInvalidCatalog, p.ID)
		}
		nameKey := strings.ToLower(p.Name)
		if _, dup := c.byName[nameKey]; dup {
			return nil, fmt.Errorf("%w: duplicate pattern name %q", ErrInvalidCatalog, p.Name)
		}
		if _, dup := c.byOrder[p.Order]; dup {
			return nil, fmt.Errorf("%w: duplicate pattern order %d", ErrInvalidCatalog, p.Order)
		}

		var hasWeight bool
		for metric, em := range p.Profile {
			if em.Weight < 0 {
				return nil, fmt.Errorf("%w: pattern %q has negative weight for %s", ErrInvalidCatalog, p.Name, metric)
			}
			if em.Weight > 0 {
				hasWeight = true
			}
		}
		if !hasWeight {
			return nil, fmt.Errorf("%w: pattern %q has no positively weighted metric", ErrInvalidCatalog, p.Name)
		}

		c.byID[p.ID] = p
		c.byName[nameKey] = p
		c.byOrder[p.Order] = p
	}

	return c, nil
}

// NewBuiltinCatalog loads the built-in 24-pattern catalog. The built-in data
// is covered by tests, so a construction failure here is a programming error.
func NewBuiltinCatalog() *Catalog {
	c, err := NewCatalog(schema.BuiltinPatterns())
	if err != nil {
		panic(err)
	}
	return c
}

// Get resolves a reference to its catalog entry. Numeric references try id
// first, then order. Returns ErrUnknownPattern when nothing matches.
func (c *Catalog) Get(ref PatternRef) (*schema.Pattern, error) {
	switch ref.kind {
	case RefByName:
		if p, ok := c.byName[strings.ToLower(ref.name)]; ok {
			return p, nil
		}
	case RefByOrder:
		if p, ok := c.byOrder[ref.num]; ok {
			return p, nil
		}
	default: // RefByID, with order fallback for raw numeric input
		if p, ok := c.byID[ref.num]; ok {
			return p, nil
		}
		if p, ok := c.byOrder[ref.num]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPattern, ref)
}

// All returns every pattern sorted by display order. Callers must not mutate
// the returned slice.
func (c *Catalog) All() []schema.Pattern {
	return c.ordered
}

// Len returns the number of patterns in the catalog.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
