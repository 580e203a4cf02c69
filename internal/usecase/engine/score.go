package engine

import (
	"context"
	"fmt"

	"github.com/shoplens/shoplens/internal/domain/query"
	"github.com/shoplens/shoplens/internal/domain/search/candidate"
	"github.com/shoplens/shoplens/internal/domain/search/strategy"
)

// score recomputes metadata match and confidence for every hit against the
// filter set active right now. Confidence is never carried over from a
// previous stage: metadata match depends on which filters are applied.
func (s *Service) score(
	ctx context.Context, hits []Hit, filters query.FilterSet, source strategy.Strategy,
) ([]candidate.Candidate, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.ProductID]; ok {
			continue
		}
		seen[h.ProductID] = struct{}{}
		ids = append(ids, h.ProductID)
	}

	products, err := s.catalog.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup products for scoring: %w", err)
	}

	cands := make([]candidate.Candidate, 0, len(hits))
	for _, h := range hits {
		sim := clamp01(h.Score)

		metaMatch := 1.0
		if total := filters.Count(); total > 0 {
			matched := 0
			if p, ok := products[h.ProductID]; ok {
				matched, _ = filters.Matches(p)
			}
			metaMatch = float64(matched) / float64(total)
		}

		conf := s.cfg.SimilarityWeight*sim + s.cfg.MetadataWeight*metaMatch
		cands = append(cands, candidate.New(h.ProductID, h.ChunkID, sim, metaMatch, conf, source))
	}
	return cands, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
