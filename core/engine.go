package core

import (
	"github.com/huangsam/bcat/schema"
)

// Request is one scoring request: a metrics vector plus an optional explicit
// pattern reference. Team/scenario identifiers travel inside the vector's
// call metadata.
type Request struct {
	Metrics *schema.MetricsVector
	Ref     *PatternRef // nil means no explicit pattern was supplied
}

// Engine ties the catalog, resolver, alignment and scorer together behind
// the selection policy. All state is read-only after construction, so one
// engine serves concurrent requests without locking.
type Engine struct {
	catalog  *Catalog
	resolver *Resolver
	weights  ScoreWeights
	decay    DecayOptions
}

// NewEngine builds an engine. A nil snapshot source disables mapped
// selection (every non-explicit request falls through to auto-best).
func NewEngine(catalog *Catalog, snapshot SnapshotFunc, weights ScoreWeights, decay DecayOptions) *Engine {
	if snapshot == nil {
		snapshot = func() *schema.MappingTable { return nil }
	}
	return &Engine{
		catalog:  catalog,
		resolver: NewResolver(catalog, snapshot),
		weights:  weights,
		decay:    decay,
	}
}

// Catalog exposes the engine's catalog for inspection surfaces.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Evaluate runs the full selection policy and scores the chosen pattern:
//
//  1. An explicit reference wins outright; an unresolvable one is the only
//     error this method returns.
//  2. Otherwise a mapping hit on team or scenario id decides.
//  3. Otherwise the best-aligned catalog pattern decides, and the full
//     ranked leaderboard is retained in the output for auditing.
//
// The scorer always runs last and produces the only score returned.
func (e *Engine) Evaluate(req Request) (*schema.BCATScore, error) {
	var chosen *schema.Pattern
	var method schema.SelectionMethod
	var leaderboard []schema.AlignmentResult

	switch {
	case req.Ref != nil:
		p, err := e.catalog.Get(*req.Ref)
		if err != nil {
			return nil, err
		}
		chosen = p
		method = schema.ExplicitSelection

	default:
		if p, ok := e.resolver.Resolve(req.Metrics); ok {
			chosen = p
			method = schema.MappedSelection
			break
		}
		best, all := SelectBest(req.Metrics, e.catalog, e.decay)
		p, err := e.catalog.Get(IDRef(best.Pattern.ID))
		if err != nil {
			return nil, err // unreachable with a validated catalog
		}
		chosen = p
		method = schema.AutoBestSelection
		leaderboard = all
	}

	score := Score(req.Metrics, chosen, e.weights, e.decay)
	score.SelectionMethod = method
	score.AllAlignments = leaderboard
	score.ConversationID = req.Metrics.Meta.ConversationID
	if score.ConversationID == "" {
		score.ConversationID = req.Metrics.Session.ConversationID
	}
	return &score, nil
}
