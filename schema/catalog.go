package schema

// Position multipliers for the emphasis ordering. The primary dimension of a
// pattern carries full weight; later positions taper off. These mirror the
// BCAT factor multipliers used when the catalog was first calibrated.
const (
	primaryMult    = 1.0
	secondaryMult  = 0.8
	tertiaryMult   = 0.6
	quaternaryMult = 0.4
)

// defaultDecayScale is the distance outside an expected band at which the fit
// reaches its floor under linear decay.
const defaultDecayScale = 0.35

// positionMultipliers indexes the taper by emphasis position.
var positionMultipliers = [4]float64{primaryMult, secondaryMult, tertiaryMult, quaternaryMult}

// EmphasisMultipliers returns the position taper as a fixed-size vector.
// Exposed so callers can reason about the template a profile was built from.
func EmphasisMultipliers() [4]float64 {
	return positionMultipliers
}

// builtinDef is the compact catalog source: id, name and the dimension
// emphasis ordering. Profiles are expanded from this at load time.
type builtinDef struct {
	id       int
	name     string
	emphasis [4]Dimension
}

// The 24 canonical patterns. Each emphasis is a distinct ordering of the four
// dimensions; together they cover all orderings exactly once. Display order
// matches id for the built-in catalog.
var builtinDefs = []builtinDef{
	{1, "review", [4]Dimension{DimPrecision, DimResolve, DimInnovation, DimHarmony}},
	{2, "briefing", [4]Dimension{DimPrecision, DimResolve, DimHarmony, DimInnovation}},
	{3, "planning", [4]Dimension{DimPrecision, DimInnovation, DimResolve, DimHarmony}},
	{4, "workshop", [4]Dimension{DimPrecision, DimInnovation, DimHarmony, DimResolve}},
	{5, "interview", [4]Dimension{DimPrecision, DimHarmony, DimResolve, DimInnovation}},
	{6, "training", [4]Dimension{DimPrecision, DimHarmony, DimInnovation, DimResolve}},
	{7, "negotiation", [4]Dimension{DimResolve, DimPrecision, DimInnovation, DimHarmony}},
	{8, "escalation", [4]Dimension{DimResolve, DimPrecision, DimHarmony, DimInnovation}},
	{9, "closing", [4]Dimension{DimResolve, DimInnovation, DimPrecision, DimHarmony}},
	{10, "standup", [4]Dimension{DimResolve, DimInnovation, DimHarmony, DimPrecision}},
	{11, "qualification", [4]Dimension{DimResolve, DimHarmony, DimPrecision, DimInnovation}},
	{12, "upsell", [4]Dimension{DimResolve, DimHarmony, DimInnovation, DimPrecision}},
	{13, "brainstorm", [4]Dimension{DimInnovation, DimPrecision, DimResolve, DimHarmony}},
	{14, "demo", [4]Dimension{DimInnovation, DimPrecision, DimHarmony, DimResolve}},
	{15, "discovery", [4]Dimension{DimInnovation, DimResolve, DimPrecision, DimHarmony}},
	{16, "kickoff", [4]Dimension{DimInnovation, DimResolve, DimHarmony, DimPrecision}},
	{17, "pitch", [4]Dimension{DimInnovation, DimHarmony, DimPrecision, DimResolve}},
	{18, "showcase", [4]Dimension{DimInnovation, DimHarmony, DimResolve, DimPrecision}},
	{19, "one-on-one", [4]Dimension{DimHarmony, DimPrecision, DimResolve, DimInnovation}},
	{20, "coaching", [4]Dimension{DimHarmony, DimPrecision, DimInnovation, DimResolve}},
	{21, "onboarding", [4]Dimension{DimHarmony, DimResolve, DimPrecision, DimInnovation}},
	{22, "support", [4]Dimension{DimHarmony, DimResolve, DimInnovation, DimPrecision}},
	{23, "retrospective", [4]Dimension{DimHarmony, DimInnovation, DimPrecision, DimResolve}},
	{24, "town-hall", [4]Dimension{DimHarmony, DimInnovation, DimResolve, DimPrecision}},
}

// emphasisScore computes how strongly a metric is emphasized by an ordering:
// each dimension the metric feeds contributes its share times the position
// multiplier of that dimension. Result is in (0, 1].
func emphasisScore(metric MetricKey, emphasis [4]Dimension, dims map[MetricKey]map[Dimension]float64) float64 {
	shares := dims[metric]
	var score float64
	for pos, dim := range emphasis {
		if share, ok := shares[dim]; ok {
			score += share * positionMultipliers[pos]
		}
	}
	return score
}

// ProfileFromEmphasis expands a dimension ordering into an explicit expected
// metric profile. Strongly emphasized metrics get a high weight and a high
// expected band; weakly emphasized ones still participate but tolerate lower
// observed values. The expansion happens once at catalog load so the
// alignment code only ever sees plain profile data.
func ProfileFromEmphasis(emphasis [4]Dimension) Profile {
	dims := GetDefaultMetricDimensions()
	profile := make(Profile, len(AllMetricKeys))
	for _, metric := range AllMetricKeys {
		e := emphasisScore(metric, emphasis, dims)
		profile[metric] = ExpectedMetric{
			// Expected band scales with emphasis: a fully emphasized metric
			// expects observations in [0.75, 1.0]; a weakly emphasized one
			// accepts anything above ~0.45.
			Min:        0.25 + 0.5*e,
			Max:        1.0,
			Weight:     e,
			DecayScale: defaultDecayScale,
		}
	}
	return profile
}

// BuiltinPatterns returns the full 24-pattern catalog with expanded profiles.
// The returned slice is freshly allocated on every call so callers can treat
// it as their own.
func BuiltinPatterns() []Pattern {
	patterns := make([]Pattern, 0, len(builtinDefs))
	for _, def := range builtinDefs {
		patterns = append(patterns, Pattern{
			ID:       def.id,
			Name:     def.name,
			Order:    def.id,
			Emphasis: def.emphasis,
			Profile:  ProfileFromEmphasis(def.emphasis),
		})
	}
	return patterns
}
