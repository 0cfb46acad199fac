package core

import (
	"testing"

	"github.com/huangsam/bcat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(table *schema.MappingTable) SnapshotFunc {
	return func() *schema.MappingTable { return table }
}

func TestIdentifiersMetaWins(t *testing.T) {
	// Regression: when meta and session disagree, meta decides.
	v := &schema.MetricsVector{
		Meta:    schema.CallMeta{TeamID: "team-15"},
		Session: schema.CallMeta{TeamID: "team-9", ScenarioID: "renewal"},
	}

	teamID, scenarioID := Identifiers(v)
	assert.Equal(t, "team-15", teamID)
	assert.Equal(t, "renewal", scenarioID, "session fills gaps meta leaves")
}

func TestResolveTeamBeatsScenario(t *testing.T) {
	catalog := NewBuiltinCatalog()
	table := schema.EmptyMappingTable()
	table.Teams["sales-east"] = "15"
	table.Scenarios["renewal"] = "7"

	r := NewResolver(catalog, snapshotOf(table))

	v := &schema.MetricsVector{
		Meta: schema.CallMeta{TeamID: "sales-east", ScenarioID: "renewal"},
	}
	p, ok := r.Resolve(v)
	require.True(t, ok)
	assert.Equal(t, 15, p.ID, "team rule wins over scenario rule")
}

func TestResolveScenarioFallback(t *testing.T) {
	catalog := NewBuiltinCatalog()
	table := schema.EmptyMappingTable()
	table.Scenarios["renewal"] = "negotiation"

	r := NewResolver(catalog, snapshotOf(table))

	v := &schema.MetricsVector{
		Meta: schema.CallMeta{TeamID: "unmapped-team", ScenarioID: "renewal"},
	}
	p, ok := r.Resolve(v)
	require.True(t, ok)
	assert.Equal(t, "negotiation", p.Name)
}

func TestResolveNoRule(t *testing.T) {
	r := NewResolver(NewBuiltinCatalog(), snapshotOf(schema.EmptyMappingTable()))

	v := &schema.MetricsVector{Meta: schema.CallMeta{TeamID: "nobody"}}
	_, ok := r.Resolve(v)
	assert.False(t, ok)
}

func TestResolveNilSnapshot(t *testing.T) {
	r := NewResolver(NewBuiltinCatalog(), snapshotOf(nil))

	v := &schema.MetricsVector{Meta: schema.CallMeta{TeamID: "sales-east"}}
	_, ok := r.Resolve(v)
	assert.False(t, ok)
}

func TestResolveBrokenRefDegrades(t *testing.T) {
	catalog := NewBuiltinCatalog()
	table := schema.EmptyMappingTable()
	table.Teams["sales-east"] = "no-such-pattern"
	table.Scenarios["renewal"] = "discovery"

	r := NewResolver(catalog, snapshotOf(table))

	// The broken team rule degrades to not-found; the scenario rule still
	// applies.
	v := &schema.MetricsVector{
		Meta: schema.CallMeta{TeamID: "sales-east", ScenarioID: "renewal"},
	}
	p, ok := r.Resolve(v)
	require.True(t, ok)
	assert.Equal(t, "discovery", p.Name)

	// With no scenario either, resolution simply fails.
	v = &schema.MetricsVector{Meta: schema.CallMeta{TeamID: "sales-east"}}
	_, ok = r.Resolve(v)
	assert.False(t, ok)
}
