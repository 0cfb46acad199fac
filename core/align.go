package core

import (
	"math"
	"sort"

	"github.com/huangsam/bcat/schema"
)

// DecayOptions holds the global fit decay configuration. Individual profile
// metrics may override both the kind and the scale.
type DecayOptions struct {
	Kind  schema.DecayKind
	Scale float64
}

// DefaultDecay returns the stock decay configuration: linear falloff reaching
// zero at 0.35 distance from the expected band.
func DefaultDecay() DecayOptions {
	return DecayOptions{Kind: schema.LinearDecay, Scale: 0.35}
}

// fit computes how well an observed value matches one expected metric, in
// [0,1]. Values inside the expected band fit perfectly; outside it, the fit
// decays monotonically with distance from the nearest bound.
func fit(observed float64, em schema.ExpectedMetric, decay DecayOptions) float64 {
	var dist float64
	switch {
	case observed < em.Min:
		dist = em.Min - observed
	case observed > em.Max:
		dist = observed - em.Max
	default:
		return 1.0
	}

	scale := em.DecayScale
	if scale <= 0 {
		scale = decay.Scale
	}
	if scale <= 0 {
		return 0.0
	}

	kind := em.DecayKind
	if kind == "" {
		kind = decay.Kind
	}
	if kind == schema.ExponentialDecay {
		return math.Exp(-dist / scale)
	}
	return math.Max(0.0, 1.0-dist/scale)
}

// sortedProfileMetrics returns the positively weighted profile metrics in
// sorted name order. Fixed iteration order keeps the floating point summation
// identical across calls, which the determinism guarantee depends on.
func sortedProfileMetrics(profile schema.Profile) []schema.MetricKey {
	metrics := make([]schema.MetricKey, 0, len(profile))
	for m, em := range profile {
		if em.Weight > 0 {
			metrics = append(metrics, m)
		}
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i] < metrics[j] })
	return metrics
}

// Align computes the similarity between a metrics vector and one pattern's
// expected profile. Profile metrics absent from the input are excluded
// entirely: the score is normalized by the weight of the metrics that were
// actually present, so sparse inputs are compared fairly and absence never
// biases the result. Pure and safe for concurrent use.
func Align(v *schema.MetricsVector, p *schema.Pattern, decay DecayOptions) schema.AlignmentResult {
	result := schema.AlignmentResult{
		Pattern:       p.Info(),
		Contributions: make(map[schema.MetricKey]float64),
	}

	var sum, weightSum float64
	for _, m := range sortedProfileMetrics(p.Profile) {
		observed, ok := v.Features[m]
		if !ok {
			continue // neutral: no data is neither reward nor penalty
		}
		em := p.Profile[m]
		contribution := em.Weight * fit(observed, em, decay)
		result.Contributions[m] = contribution
		sum += contribution
		weightSum += em.Weight
		result.Matched++
	}

	if weightSum > 0 {
		result.Score = sum / weightSum
	}
	return result
}
