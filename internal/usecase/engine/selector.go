package engine

import (
	"sort"

	"github.com/shoplens/shoplens/internal/domain/search/candidate"
)

// selectTop deduplicates candidates by product (keeping the highest
// confidence), ranks them descending by confidence with a deterministic
// (chunk_id, product_id) tie-break, and truncates to topK.
func selectTop(cands []candidate.Candidate, topK int) []candidate.Candidate {
	if len(cands) == 0 {
		return nil
	}

	bestPerProduct := make(map[string]candidate.Candidate, len(cands))
	for _, c := range cands {
		prev, ok := bestPerProduct[c.ProductID()]
		if !ok || c.Confidence() > prev.Confidence() ||
			(c.Confidence() == prev.Confidence() && c.ChunkID() < prev.ChunkID()) {
			bestPerProduct[c.ProductID()] = c
		}
	}

	results := make([]candidate.Candidate, 0, len(bestPerProduct))
	for _, c := range bestPerProduct {
		results = append(results, c)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence() != results[j].Confidence() {
			return results[i].Confidence() > results[j].Confidence()
		}
		if results[i].ChunkID() != results[j].ChunkID() {
			return results[i].ChunkID() < results[j].ChunkID()
		}
		return results[i].ProductID() < results[j].ProductID()
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
