package core

import (
	"sort"

	"github.com/huangsam/bcat/schema"
)

// ScoreWeights carries the business configuration the scorer consumes: how
// metrics group into dimensions and how dimensions combine into the
// aggregate. Both have defaults and can be tuned via the config file without
// touching the scoring algorithm.
type ScoreWeights struct {
	// MetricDimensions maps each metric to its per-dimension shares.
	MetricDimensions map[schema.MetricKey]map[schema.Dimension]float64

	// DimensionWeights is the weight of each dimension in the aggregate.
	DimensionWeights map[schema.Dimension]float64
}

// DefaultScoreWeights returns the stock grouping and equal dimension weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		MetricDimensions: schema.GetDefaultMetricDimensions(),
		DimensionWeights: schema.GetDefaultDimensionWeights(),
	}
}

// Score derives the structured BCAT score for a metrics vector against an
// already-chosen pattern. It is pure with respect to (metrics, pattern) and
// independent of how the pattern was selected; the caller stamps the
// selection method afterwards.
//
// A vector with zero overlap against the pattern's profile yields a defined
// neutral result (aggregate 0.0, MissingMetrics set) rather than an error,
// so downstream consumers can tell "no data" from "poor match".
func Score(v *schema.MetricsVector, p *schema.Pattern, weights ScoreWeights, decay DecayOptions) schema.BCATScore {
	out := schema.BCATScore{
		Pattern:    p.Info(),
		Dimensions: make(map[schema.Dimension]schema.DimensionScore),
	}

	type accum struct {
		num, den float64
		metrics  map[schema.MetricKey]schema.MetricInput
	}
	acc := make(map[schema.Dimension]*accum)

	matched := 0
	for _, m := range sortedProfileMetrics(p.Profile) {
		observed, ok := v.Features[m]
		if !ok {
			continue
		}
		matched++

		em := p.Profile[m]
		f := fit(observed, em, decay)
		shares, ok := weights.MetricDimensions[m]
		if !ok {
			// Metrics outside the configured grouping count toward every
			// dimension equally so they are never silently dropped.
			shares = make(map[schema.Dimension]float64, len(schema.AllDimensions))
			for _, d := range schema.AllDimensions {
				shares[d] = 1.0 / float64(len(schema.AllDimensions))
			}
		}

		for _, d := range sortedDimensions(shares) {
			share := shares[d]
			a := acc[d]
			if a == nil {
				a = &accum{metrics: make(map[schema.MetricKey]schema.MetricInput)}
				acc[d] = a
			}
			a.num += share * em.Weight * f
			a.den += share * em.Weight
			a.metrics[m] = schema.MetricInput{Observed: observed, Fit: f, Weight: share * em.Weight}
		}
	}

	if matched == 0 {
		out.MissingMetrics = true
		return out
	}

	accDims := make([]schema.Dimension, 0, len(acc))
	for d := range acc {
		accDims = append(accDims, d)
	}
	sort.Slice(accDims, func(i, j int) bool { return accDims[i] < accDims[j] })

	var aggNum, aggDen float64
	for _, d := range accDims {
		a := acc[d]
		if a.den <= 0 {
			continue
		}
		dimWeight := weights.DimensionWeights[d]
		score := a.num / a.den
		out.Dimensions[d] = schema.DimensionScore{
			Score:   score,
			Weight:  dimWeight,
			Metrics: a.metrics,
		}
		aggNum += dimWeight * score
		aggDen += dimWeight
	}
	if aggDen > 0 {
		out.AggregateScore = aggNum / aggDen
	}

	return out
}

// sortedDimensions returns the dimensions of a share map in sorted order,
// for deterministic accumulation.
func sortedDimensions(shares map[schema.Dimension]float64) []schema.Dimension {
	dims := make([]schema.Dimension, 0, len(shares))
	for d := range shares {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}
