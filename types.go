package shoplens

import (
	"context"
	"fmt"

	"github.com/shoplens/shoplens/internal/domain/product"
	"github.com/shoplens/shoplens/internal/domain/search/outcome"
	"github.com/shoplens/shoplens/internal/usecase/ingest"
)

// EmbeddingResult is the vector and token usage for one embedded text.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder produces embedding vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Product is a catalog entry.
type Product struct {
	ID          string
	Title       string
	Description string
	Brand       string
	Category    string
	Price       float64
	Available   bool
}

// Result is a single ranked search result.
type Result struct {
	ProductID       string
	ChunkID         string
	Similarity      float64
	MetadataMatch   float64
	Confidence      float64
	ConfidenceLevel string
	Citation        string
}

// Filters are the structured predicates that were active when the results
// were scored.
type Filters struct {
	Brand        string
	Category     string
	MinPrice     *float64
	MaxPrice     *float64
	Availability *bool
}

// SearchOutcome is the full response of one query execution.
type SearchOutcome struct {
	Results         []Result
	Strategy        string
	Filters         Filters
	RelaxationSteps int
	RelaxationPath  []string
	LowConfidence   bool
	ConfidenceLevel string
}

func newDomainProduct(p Product) (product.Product, error) {
	dp, err := product.New(
		p.ID, p.Title, p.Description, p.Brand,
		ingest.NormalizeCategory(p.Category), p.Price, p.Available,
	)
	if err != nil {
		return product.Product{}, fmt.Errorf("build product: %w", err)
	}
	return dp, nil
}

func productFromDomain(p product.Product) Product {
	return Product{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		Brand:       p.Brand(),
		Category:    p.Category(),
		Price:       p.Price(),
		Available:   p.Available(),
	}
}

func outcomeFromDomain(out outcome.Outcome) SearchOutcome {
	results := make([]Result, len(out.Results()))
	for i, c := range out.Results() {
		results[i] = Result{
			ProductID:       c.ProductID(),
			ChunkID:         c.ChunkID(),
			Similarity:      c.Similarity(),
			MetadataMatch:   c.MetadataMatch(),
			Confidence:      c.Confidence(),
			ConfidenceLevel: string(outcome.LevelOf(c.Confidence())),
			Citation:        c.Citation(),
		}
	}

	f := out.Filters()
	return SearchOutcome{
		Results:         results,
		Strategy:        string(out.Strategy()),
		Filters: Filters{
			Brand:        f.Brand(),
			Category:     f.Category(),
			MinPrice:     f.MinPrice(),
			MaxPrice:     f.MaxPrice(),
			Availability: f.Availability(),
		},
		RelaxationSteps: out.RelaxationSteps(),
		RelaxationPath:  out.RelaxationPath(),
		LowConfidence:   out.LowConfidence(),
		ConfidenceLevel: string(out.Level()),
	}
}
