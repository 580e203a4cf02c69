package engine

import "sort"

// fuseHits merges vector and keyword hits into one list keyed by chunk:
// fused = vectorWeight*vector + keywordWeight*keyword, with a missing side
// contributing zero. The union is kept, not the intersection — a
// keyword-only hit stays eligible. Output is ordered by fused score with a
// deterministic (chunk, product) tie-break.
func fuseHits(vecHits, kwHits []Hit, vectorWeight, keywordWeight float64) []Hit {
	type pair struct {
		productID string
		vec       float64
		kw        float64
	}

	merged := make(map[string]*pair, len(vecHits)+len(kwHits))
	order := make([]string, 0, len(vecHits)+len(kwHits))

	for _, h := range vecHits {
		merged[h.ChunkID] = &pair{productID: h.ProductID, vec: clamp01(h.Score)}
		order = append(order, h.ChunkID)
	}
	for _, h := range kwHits {
		if p, ok := merged[h.ChunkID]; ok {
			p.kw = clamp01(h.Score)
			continue
		}
		merged[h.ChunkID] = &pair{productID: h.ProductID, kw: clamp01(h.Score)}
		order = append(order, h.ChunkID)
	}

	fused := make([]Hit, 0, len(merged))
	for _, chunkID := range order {
		p := merged[chunkID]
		fused = append(fused, Hit{
			ProductID: p.productID,
			ChunkID:   chunkID,
			Score:     vectorWeight*p.vec + keywordWeight*p.kw,
		})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		if fused[i].ChunkID != fused[j].ChunkID {
			return fused[i].ChunkID < fused[j].ChunkID
		}
		return fused[i].ProductID < fused[j].ProductID
	})
	return fused
}
