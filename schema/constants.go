package schema

// Custom string types for type safety.
type (
	// MetricKey names one canonical conversation metric.
	MetricKey string

	// Dimension names one scoring sub-dimension of a BCAT score.
	Dimension string

	// SelectionMethod records how the scored pattern was chosen.
	SelectionMethod string

	// DecayKind selects the fit decay function outside an expected band.
	DecayKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the mapping store.
	DatabaseBackend string
)

// Canonical curated metrics the built-in pattern profiles reference.
// The engine itself accepts arbitrary feature names; these are the ones
// produced by the provider payload normalization.
const (
	MetricObjectivity MetricKey = "objectivity"
	MetricClarity     MetricKey = "clarity_conciseness"
	MetricEnergy      MetricKey = "energy"
	MetricDecision    MetricKey = "decision_orientation"
	MetricFollowup    MetricKey = "followup_questions"
	MetricNovelty     MetricKey = "novelty_ideation"
	MetricAttention   MetricKey = "attention_listening"
	MetricTalkBalance MetricKey = "talk_balance"
	MetricPatience    MetricKey = "patience"
	MetricPositivity  MetricKey = "positivity_tone"
)

// The four BCAT scoring dimensions.
const (
	DimPrecision  Dimension = "precision"
	DimResolve    Dimension = "resolve"
	DimInnovation Dimension = "innovation"
	DimHarmony    Dimension = "harmony"
)

// All selection methods.
const (
	ExplicitSelection SelectionMethod = "explicit"
	MappedSelection   SelectionMethod = "mapped"
	AutoBestSelection SelectionMethod = "auto-best"
)

// All decay kinds supported.
const (
	LinearDecay      DecayKind = "linear" // default
	ExponentialDecay DecayKind = "exponential"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All mapping backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllDimensions returns the four dimensions in canonical order.
var AllDimensions = []Dimension{DimPrecision, DimResolve, DimInnovation, DimHarmony}

// AllMetricKeys returns the canonical metrics in canonical order.
var AllMetricKeys = []MetricKey{
	MetricObjectivity,
	MetricClarity,
	MetricEnergy,
	MetricDecision,
	MetricFollowup,
	MetricNovelty,
	MetricAttention,
	MetricTalkBalance,
	MetricPatience,
	MetricPositivity,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDecayKinds lists all valid decay kinds.
var ValidDecayKinds = map[DecayKind]struct{}{
	LinearDecay:      {},
	ExponentialDecay: {},
}

// ValidMappingBackends lists all valid mapping store backends.
var ValidMappingBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultMetricDimensions returns how much each canonical metric counts
// toward each dimension. Shares per metric sum to 1. This is business
// configuration, not algorithm: the scorer consumes whatever grouping the
// final config carries.
func GetDefaultMetricDimensions() map[MetricKey]map[Dimension]float64 {
	return map[MetricKey]map[Dimension]float64{
		MetricObjectivity: {DimPrecision: 0.7, DimHarmony: 0.3},
		MetricClarity:     {DimPrecision: 0.8, DimResolve: 0.2},
		MetricEnergy:      {DimResolve: 0.6, DimInnovation: 0.4},
		MetricDecision:    {DimResolve: 0.9, DimPrecision: 0.1},
		MetricFollowup:    {DimResolve: 0.5, DimInnovation: 0.3, DimHarmony: 0.2},
		MetricNovelty:     {DimInnovation: 1.0},
		MetricAttention:   {DimHarmony: 0.7, DimPrecision: 0.3},
		MetricTalkBalance: {DimHarmony: 1.0},
		MetricPatience:    {DimHarmony: 0.6, DimPrecision: 0.4},
		MetricPositivity:  {DimHarmony: 0.8, DimInnovation: 0.2},
	}
}

// GetDefaultDimensionWeights returns the default weight of each dimension
// in the aggregate score. Equal by default.
func GetDefaultDimensionWeights() map[Dimension]float64 {
	return map[Dimension]float64{
		DimPrecision:  0.25,
		DimResolve:    0.25,
		DimInnovation: 0.25,
		DimHarmony:    0.25,
	}
}
