package schema

// ProviderPayload is the raw nested metrics document produced by the upstream
// conversation analytics provider. Field shapes vary between integrations
// (plain numbers, class-probability maps, or label strings), so groups are
// kept loosely typed and interpreted by Normalize.
type ProviderPayload struct {
	Meta        CallMeta       `json:"meta"`
	Session     CallMeta       `json:"session"`
	Language    map[string]any `json:"language"`
	Vocal       map[string]any `json:"vocal"`
	Facial      map[string]any `json:"facial"`
	Interaction map[string]any `json:"interaction"`
	Highlevel   map[string]any `json:"highlevel"`
}

// Intermediate feature names emitted by Normalize before curation.
const (
	rawPositivity    MetricKey = "positivity"
	rawNegativityInv MetricKey = "negativity_inv"
	rawObjectivity   MetricKey = "objectivity_raw"
	rawFillerInv     MetricKey = "filler_inv"
	rawSentenceLen   MetricKey = "avg_sentence_len_norm"
	rawPatience      MetricKey = "patience_norm"
	rawKeywords      MetricKey = "kw_strength"
	rawCuriosity     MetricKey = "lang_emo_curiosity"
	rawQuestionRatio MetricKey = "question_ratio"
	rawOffensiveInv  MetricKey = "offensiveness_inv"
	rawEnergy        MetricKey = "energy_raw"
	rawEmoPos        MetricKey = "emo_pos"
	rawEmoNegInv     MetricKey = "emo_neg_inv"
	rawAttention     MetricKey = "attention_att"
	rawAttentionInv  MetricKey = "attention_dist_inv"
	rawFacialPos     MetricKey = "facial_emo_pos"
	rawFacialDisInv  MetricKey = "facial_emo_dis_inv"
	rawTalkBalance   MetricKey = "talk_balance_raw"
	rawSpeed         MetricKey = "speed_norm"
	rawActionItems   MetricKey = "action_items"
	rawFollowup      MetricKey = "followup_questions_raw"
)

// clamp01 clamps v to the unit interval.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toUnit interprets a provider value that may be on a 0-1 or 0-100 scale and
// returns it on the unit interval.
func toUnit(v float64) float64 {
	if v > 1.0 {
		v = v / 100.0
	}
	return clamp01(v)
}

// minMax scales v into [0,1] across the [lo, hi] range.
func minMax(v, lo, hi float64) float64 {
	if lo == hi {
		return 0
	}
	return clamp01((v - lo) / (hi - lo))
}

// talkBalance scores a talk/listen ratio by its distance from an even split:
// 0.5 is perfect, 0 or 1 scores zero.
func talkBalance(ratio float64) float64 {
	d := ratio - 0.5
	if d < 0 {
		d = -d
	}
	return clamp01(1.0 - d*2.0)
}

// asFloat extracts a numeric value from a loosely typed provider field.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case bool:
		if n {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// asDist extracts a class-probability map from a loosely typed provider field.
func asDist(v any) (map[string]float64, bool) {
	raw, ok := v.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	dist := make(map[string]float64, len(raw))
	for k, val := range raw {
		if f, fok := asFloat(val); fok {
			dist[k] = f
		}
	}
	if len(dist) == 0 {
		return nil, false
	}
	return dist, true
}

// Normalize flattens a raw provider payload into unit-scaled features.
// Only fields actually present in the payload produce features; nothing is
// defaulted, so downstream scoring can tell "no data" from "zero".
func Normalize(p *ProviderPayload) map[MetricKey]float64 {
	out := make(map[MetricKey]float64)

	normalizeLanguage(p.Language, out)
	normalizeVocal(p.Vocal, out)
	normalizeFacial(p.Facial, out)

	if v, ok := asFloat(p.Interaction["talk_listen"]); ok {
		out[rawTalkBalance] = talkBalance(v)
	}
	if v, ok := asFloat(p.Interaction["speed_wpm"]); ok {
		out[rawSpeed] = minMax(v, 90.0, 180.0)
	}

	if v, ok := asFloat(p.Highlevel["action_items"]); ok {
		out[rawActionItems] = toUnit(v)
	}
	if v, ok := asFloat(p.Highlevel["followup_questions"]); ok {
		out[rawFollowup] = toUnit(v)
	}

	return out
}

// normalizeLanguage folds the language group into unit features.
func normalizeLanguage(lang map[string]any, out map[MetricKey]float64) {
	// Positivity arrives either as a class distribution or a plain value.
	if dist, ok := asDist(lang["positivity_classes"]); ok {
		pos := dist["positive"]
		neu := dist["neutral"]
		neg := dist["negative"]
		out[rawPositivity] = clamp01(toUnit(pos) + 0.5*toUnit(neu))
		out[rawNegativityInv] = clamp01(1.0 - toUnit(neg))
	} else if v, ok := asFloat(lang["positivity"]); ok {
		out[rawPositivity] = toUnit(v)
	}

	if dist, ok := asDist(lang["objectivity"]); ok {
		out[rawObjectivity] = toUnit(dist["objective"])
	} else if v, ok := asFloat(lang["objectivity"]); ok {
		out[rawObjectivity] = toUnit(v)
	}

	if v, ok := asFloat(lang["filler_ratio"]); ok {
		out[rawFillerInv] = clamp01(1.0 - toUnit(v))
	}
	if v, ok := asFloat(lang["avg_sentence_len"]); ok {
		out[rawSentenceLen] = minMax(v, 4.0, 25.0)
	}
	if v, ok := asFloat(lang["patience"]); ok {
		out[rawPatience] = minMax(v, 0.0, 180.0)
	}
	if v, ok := asFloat(lang["lang_emo_curiosity"]); ok {
		out[rawCuriosity] = toUnit(v)
	}

	if kw, ok := asDist(lang["keywords"]); ok {
		var sum float64
		for _, v := range kw {
			sum += toUnit(v)
		}
		out[rawKeywords] = sum / float64(len(kw))
	}

	// Question and offensiveness may arrive as labels instead of numbers.
	if v, ok := normalizeLabeled(lang["question"], "question"); ok {
		out[rawQuestionRatio] = v
	}
	if v, ok := asFloat(lang["question_ratio"]); ok {
		out[rawQuestionRatio] = toUnit(v)
	}
	if v, ok := normalizeLabeled(lang["offensiveness"], "offen"); ok {
		out[rawOffensiveInv] = clamp01(1.0 - v)
	}
}

// normalizeVocal folds the vocal group into unit features.
func normalizeVocal(vocal map[string]any, out map[MetricKey]float64) {
	if dist, ok := asDist(vocal["energy"]); ok {
		ener := dist["energetic"]
		if ener > 0 {
			out[rawEnergy] = toUnit(ener)
		} else {
			out[rawEnergy] = clamp01(1.0 - toUnit(dist["monotonic"]))
		}
	} else if v, ok := asFloat(vocal["energy"]); ok {
		out[rawEnergy] = toUnit(v)
	}

	if emo, ok := asDist(vocal["emotions"]); ok {
		if happy, hok := emo["happy"]; hok {
			out[rawEmoPos] = toUnit(happy)
		}
		neg := emo["sad"] + emo["angry"]
		out[rawEmoNegInv] = clamp01(1.0 - toUnit(neg))
	}
}

// normalizeFacial folds the facial group into unit features.
func normalizeFacial(facial map[string]any, out map[MetricKey]float64) {
	if att, ok := asDist(facial["attention"]); ok {
		attentive, aok := att["attentive"]
		normal, nok := att["normal"]
		if aok || nok {
			out[rawAttention] = clamp01(toUnit(attentive) + 0.5*toUnit(normal))
		}
		if dist, dok := att["distracted"]; dok {
			out[rawAttentionInv] = clamp01(1.0 - toUnit(dist))
		}
	}

	if emo, ok := asDist(facial["emotions"]); ok {
		if happy, hok := emo["happy"]; hok {
			out[rawFacialPos] = toUnit(happy)
		}
		dis := emo["dissatisfied"] + emo["annoyed"]
		out[rawFacialDisInv] = clamp01(1.0 - toUnit(dis))
	}
}

// normalizeLabeled handles fields that arrive as either a number or a label
// string; a label counts as 1.0 when it starts with the given prefix.
func normalizeLabeled(v any, prefix string) (float64, bool) {
	if s, ok := v.(string); ok {
		if len(s) >= len(prefix) && equalFold(s[:len(prefix)], prefix) {
			return 1.0, true
		}
		return 0.0, true
	}
	if f, ok := asFloat(v); ok {
		return toUnit(f), true
	}
	return 0, false
}

// equalFold is an ASCII-only case-insensitive comparison for short labels.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// mean averages the present values; returns false when none are present.
func mean(values map[MetricKey]float64, keys ...MetricKey) (float64, bool) {
	var sum float64
	var n int
	for _, k := range keys {
		if v, ok := values[k]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// weightedMean averages present values with the paired weights; returns false
// when nothing is present or all present weights are zero.
func weightedMean(values map[MetricKey]float64, keys []MetricKey, weights []float64) (float64, bool) {
	var num, den float64
	for i, k := range keys {
		if v, ok := values[k]; ok {
			num += v * weights[i]
			den += weights[i]
		}
	}
	if den <= 0 {
		return 0, false
	}
	return num / den, true
}

// Curate folds normalized intermediate features into the ten canonical
// metrics the built-in catalog profiles reference. Metrics with no backing
// data are omitted.
func Curate(norm map[MetricKey]float64) map[MetricKey]float64 {
	cur := make(map[MetricKey]float64)

	if v, ok := norm[rawObjectivity]; ok {
		cur[MetricObjectivity] = v
	}
	if v, ok := mean(norm, rawFillerInv, rawSentenceLen); ok {
		cur[MetricClarity] = v
	}
	if v, ok := norm[rawEnergy]; ok {
		cur[MetricEnergy] = v
	}
	if v, ok := norm[rawActionItems]; ok {
		cur[MetricDecision] = v
	}
	if v, ok := norm[rawFollowup]; ok {
		cur[MetricFollowup] = v
	}
	if v, ok := mean(norm, rawKeywords, rawCuriosity); ok {
		cur[MetricNovelty] = v
	}
	if v, ok := weightedMean(norm, []MetricKey{rawAttention, rawAttentionInv}, []float64{0.7, 0.3}); ok {
		cur[MetricAttention] = v
	}
	if v, ok := norm[rawTalkBalance]; ok {
		cur[MetricTalkBalance] = v
	}
	if v, ok := norm[rawPatience]; ok {
		cur[MetricPatience] = v
	}
	if v, ok := mean(norm, rawPositivity, rawEmoPos, rawEmoNegInv); ok {
		cur[MetricPositivity] = v
	}

	return cur
}

// VectorFromPayload runs the full normalize-and-curate pipeline and attaches
// the payload's call metadata, producing the engine's input shape.
func VectorFromPayload(p *ProviderPayload) *MetricsVector {
	return &MetricsVector{
		Meta:     p.Meta,
		Session:  p.Session,
		Features: Curate(Normalize(p)),
	}
}
