package core

import (
	"sort"

	"github.com/huangsam/bcat/schema"
)

// rankAlignments sorts alignment results by descending score, breaking exact
// ties by ascending pattern order so the winner is always deterministic.
func rankAlignments(results []schema.AlignmentResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Pattern.Order < results[j].Pattern.Order
	})
}

// SelectBest aligns the metrics vector against every pattern in the catalog
// and returns the winner plus the full ranked leaderboard. The leaderboard
// lets callers audit why a pattern was chosen. Never mutates the catalog and
// may run concurrently for different requests.
func SelectBest(v *schema.MetricsVector, catalog *Catalog, decay DecayOptions) (schema.AlignmentResult, []schema.AlignmentResult) {
	patterns := catalog.All()
	all := make([]schema.AlignmentResult, 0, len(patterns))
	for i := range patterns {
		all = append(all, Align(v, &patterns[i], decay))
	}
	rankAlignments(all)
	return all[0], all
}
