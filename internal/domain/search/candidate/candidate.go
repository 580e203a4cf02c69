package candidate

import (
	"github.com/shoplens/shoplens/internal/domain/search/strategy"
)

// Candidate is a single product/chunk pair under consideration, with its
// scores at the stage that produced it. Confidence is always recomputed when
// the active filter set changes, never copied across stages.
type Candidate struct {
	productID     string
	chunkID       string
	similarity    float64
	metadataMatch float64
	confidence    float64
	source        strategy.Strategy
}

// New creates a Candidate.
func New(productID, chunkID string, similarity, metadataMatch, confidence float64, source strategy.Strategy) Candidate {
	return Candidate{
		productID:     productID,
		chunkID:       chunkID,
		similarity:    similarity,
		metadataMatch: metadataMatch,
		confidence:    confidence,
		source:        source,
	}
}

// ProductID returns the product identifier.
func (c Candidate) ProductID() string { return c.productID }

// ChunkID returns the chunk identifier.
func (c Candidate) ChunkID() string { return c.chunkID }

// Similarity returns the (possibly fused) similarity score in [0,1].
func (c Candidate) Similarity() float64 { return c.similarity }

// MetadataMatch returns the matched-filter fraction in [0,1].
func (c Candidate) MetadataMatch() float64 { return c.metadataMatch }

// Confidence returns the blended confidence score in [0,1].
func (c Candidate) Confidence() float64 { return c.confidence }

// Source returns the strategy that produced this candidate.
func (c Candidate) Source() strategy.Strategy { return c.source }

// Citation returns the citation string for this candidate, derived from the
// product and chunk identifiers.
func (c Candidate) Citation() string {
	return c.productID + "#" + c.chunkID
}
