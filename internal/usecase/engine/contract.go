package engine

import (
	"context"

	"github.com/shoplens/shoplens/internal/domain/product"
	"github.com/shoplens/shoplens/internal/domain/query"
)

// Hit is a raw index result before confidence scoring.
type Hit struct {
	ProductID string
	ChunkID   string
	Score     float64
}

// VectorIndex is the injected similarity search capability. candidateIDs
// restricts the search to the pre-filtered product set; nil means the whole
// universe, an empty non-nil slice means no candidates. Scores are cosine
// similarities; the engine clamps them into [0,1].
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, candidateIDs []string, k int) ([]Hit, error)
}

// KeywordIndex is the injected lexical search capability, with the same
// candidate-restriction semantics as VectorIndex. Scores are normalized
// lexical relevance; out-of-range values are clamped by the engine.
type KeywordIndex interface {
	Search(ctx context.Context, text string, candidateIDs []string, k int) ([]Hit, error)
}

// Catalog is the injected metadata store. Filter must implement the
// pre-filter contract: brand equality, hierarchical category prefix,
// inclusive price-band overlap, availability equality. An empty FilterSet
// returns nil (unrestricted universe). Filter is invoked once per relaxation
// step and must be cheap to re-run.
type Catalog interface {
	Filter(ctx context.Context, filters query.FilterSet) ([]string, error)
	Lookup(ctx context.Context, ids []string) (map[string]product.Product, error)
}

// Extractor parses a query into clean search text and a filter set.
type Extractor interface {
	Extract(q query.Query) (string, query.FilterSet, error)
}
