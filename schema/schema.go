// Package schema has configs, models and catalog data for all parts of bcat.
package schema

import "time"

// ExpectedMetric describes what a pattern expects from one conversation metric.
// Observed values inside [Min, Max] are a perfect fit; outside the band the fit
// decays with distance, at a rate controlled by DecayScale.
type ExpectedMetric struct {
	Min        float64   `json:"min"`                  // Lower bound of the expected band (0-1 scale)
	Max        float64   `json:"max"`                  // Upper bound of the expected band (0-1 scale)
	Weight     float64   `json:"weight"`               // Importance of this metric within the profile (>= 0)
	DecayScale float64   `json:"decay_scale"`          // Distance at which fit bottoms out (0 = global default)
	DecayKind  DecayKind `json:"decay_kind,omitempty"` // Per-metric decay override ("" = global default)
}

// Profile maps metric names to their expected values for one pattern.
type Profile map[MetricKey]ExpectedMetric

// Pattern is one of the 24 canonical interaction patterns a conversation
// can be classified against.
type Pattern struct {
	ID       int          `json:"id"`       // Stable identifier, unique, 1..24
	Name     string       `json:"name"`     // Human-readable label, unique
	Order    int          `json:"order"`    // Display and tie-break rank, unique, 1..24
	Emphasis [4]Dimension `json:"emphasis"` // Dimension ordering (primary..quaternary) this pattern rewards
	Profile  Profile      `json:"profile"`  // Expected metric bands and weights
}

// Info returns the lightweight identifying triple for output payloads.
func (p *Pattern) Info() PatternInfo {
	return PatternInfo{ID: p.ID, Name: p.Name, Order: p.Order}
}

// PatternInfo identifies a pattern in score output without carrying its profile.
type PatternInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CallMeta holds opaque call metadata attached to a metrics vector.
// Identifiers may arrive in either the meta or session container depending on
// the upstream integration; the resolver gives meta precedence.
type CallMeta struct {
	TeamID         string `json:"team_id,omitempty"`
	ScenarioID     string `json:"scenario_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// MetricsVector is the per-conversation input to the engine: call metadata
// plus a flat map of numeric features. Features are not guaranteed to cover
// every metric a pattern profile references.
type MetricsVector struct {
	Meta     CallMeta              `json:"meta"`
	Session  CallMeta              `json:"session"`
	Features map[MetricKey]float64 `json:"features"`
}

// AlignmentResult is the similarity between one metrics vector and one
// pattern's expected profile. Produced transiently, never persisted.
type AlignmentResult struct {
	Pattern       PatternInfo           `json:"pattern"`
	Score         float64               `json:"score"`         // 0-1, higher is a better match
	Contributions map[MetricKey]float64 `json:"contributions"` // Per-metric share of the score, for explainability
	Matched       int                   `json:"matched"`       // Number of profile metrics present in the input
}

// MetricInput records the raw inputs that fed a dimension score.
type MetricInput struct {
	Observed float64 `json:"observed"`
	Fit      float64 `json:"fit"`
	Weight   float64 `json:"weight"`
}

// DimensionScore is one named sub-dimension of a BCAT score.
type DimensionScore struct {
	Score   float64                   `json:"score"`  // 0-1, weighted fit of the metrics in this dimension
	Weight  float64                   `json:"weight"` // Weight of this dimension in the aggregate
	Metrics map[MetricKey]MetricInput `json:"metrics"`
}

// BCATScore is the final structured score for a conversation against its
// chosen pattern.
type BCATScore struct {
	ConversationID  string                       `json:"conversation_id,omitempty"`
	Pattern         PatternInfo                  `json:"pattern"`
	SelectionMethod SelectionMethod              `json:"selection_method"`
	AggregateScore  float64                      `json:"aggregate_score"` // 0-1
	Dimensions      map[Dimension]DimensionScore `json:"dimensions"`
	MissingMetrics  bool                         `json:"missing_metrics"`          // True when no input feature overlapped the profile
	AllAlignments   []AlignmentResult            `json:"all_alignments,omitempty"` // Only populated for auto-best selection
}

// MappingTable is an immutable snapshot of the operator-supplied
// team/scenario to pattern overrides. Teams and scenarios are independent
// namespaces; there is no combined key. Values are pattern references
// (id, name, or order) resolved at the catalog boundary.
type MappingTable struct {
	Teams     map[string]string `json:"teams"`
	Scenarios map[string]string `json:"scenarios"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// EmptyMappingTable returns a snapshot with no rules.
func EmptyMappingTable() *MappingTable {
	return &MappingTable{
		Teams:     map[string]string{},
		Scenarios: map[string]string{},
	}
}

// MappingStatus reports the health of the mapping store backend.
type MappingStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	TeamRules     int       `json:"team_rules"`
	ScenarioRules int       `json:"scenario_rules"`
	FetchedAt     time.Time `json:"fetched_at,omitempty"`
	Error         string    `json:"error,omitempty"`
}
