package core

import (
	"github.com/huangsam/bcat/schema"
)

// SnapshotFunc returns the current mapping table snapshot. Implementations
// must return an atomic, immutable snapshot; the resolver never mutates it.
type SnapshotFunc func() *schema.MappingTable

// Resolver looks up operator-supplied team/scenario overrides for a metrics
// vector. Team rules take priority over scenario rules; the two namespaces
// are independent and never combined.
type Resolver struct {
	catalog  *Catalog
	snapshot SnapshotFunc
}

// NewResolver builds a resolver over a catalog and a mapping snapshot source.
func NewResolver(catalog *Catalog, snapshot SnapshotFunc) *Resolver {
	return &Resolver{catalog: catalog, snapshot: snapshot}
}

// Identifiers extracts the team and scenario ids from a metrics vector.
// Both the meta and session containers may carry them; meta wins whenever
// both are present, even when they disagree. This precedence is fixed and
// covered by a regression test.
func Identifiers(v *schema.MetricsVector) (teamID, scenarioID string) {
	teamID = v.Meta.TeamID
	if teamID == "" {
		teamID = v.Session.TeamID
	}
	scenarioID = v.Meta.ScenarioID
	if scenarioID == "" {
		scenarioID = v.Session.ScenarioID
	}
	return teamID, scenarioID
}

// Resolve returns the mapped pattern for the vector's identifiers, or false
// when no rule applies. A rule whose pattern reference no longer resolves in
// the catalog degrades to not-found rather than failing the request.
func (r *Resolver) Resolve(v *schema.MetricsVector) (*schema.Pattern, bool) {
	table := r.snapshot()
	if table == nil {
		return nil, false
	}

	teamID, scenarioID := Identifiers(v)

	if teamID != "" {
		if ref, ok := table.Teams[teamID]; ok {
			if p, err := r.catalog.Get(ParseRef(ref)); err == nil {
				return p, true
			}
		}
	}
	if scenarioID != "" {
		if ref, ok := table.Scenarios[scenarioID]; ok {
			if p, err := r.catalog.Get(ParseRef(ref)); err == nil {
				return p, true
			}
		}
	}
	return nil, false
}
