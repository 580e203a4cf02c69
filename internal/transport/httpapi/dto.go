package httpapi

import (
	"github.com/shoplens/shoplens/internal/domain/product"
	"github.com/shoplens/shoplens/internal/domain/query"
	"github.com/shoplens/shoplens/internal/domain/search/outcome"
)

// Error codes returned in error responses.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeProductNotFound        = "product_not_found"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeIndexUnavailable       = "index_unavailable"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type searchResultItem struct {
	ProductID       string  `json:"product_id"`
	ChunkID         string  `json:"chunk_id"`
	Similarity      float64 `json:"similarity"`
	MetadataMatch   float64 `json:"metadata_match"`
	Confidence      float64 `json:"confidence"`
	ConfidenceLevel string  `json:"confidence_level"`
	Source          string  `json:"source"`
	Citation        string  `json:"citation"`
}

type appliedFilters struct {
	Brand        string   `json:"brand,omitempty"`
	Category     string   `json:"category,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	Availability *bool    `json:"availability,omitempty"`
}

// searchSummary aggregates the outcome metadata under one envelope key so
// results and summary stay separable for response-generation consumers.
type searchSummary struct {
	TotalFound      int            `json:"total_found"`
	ConfidenceLevel string         `json:"confidence_level"`
	SearchType      string         `json:"search_type"`
	FiltersApplied  appliedFilters `json:"filters_applied"`
	RelaxationSteps int            `json:"relaxation_steps"`
	RelaxationPath  []string       `json:"relaxation_path,omitempty"`
	LowConfidence   bool           `json:"low_confidence,omitempty"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Summary searchSummary      `json:"search_summary"`
}

type upsertProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

type productResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func outcomeToResponse(out outcome.Outcome) searchResponse {
	items := make([]searchResultItem, len(out.Results()))
	for i, c := range out.Results() {
		items[i] = searchResultItem{
			ProductID:       c.ProductID(),
			ChunkID:         c.ChunkID(),
			Similarity:      c.Similarity(),
			MetadataMatch:   c.MetadataMatch(),
			Confidence:      c.Confidence(),
			ConfidenceLevel: string(outcome.LevelOf(c.Confidence())),
			Source:          string(c.Source()),
			Citation:        c.Citation(),
		}
	}

	return searchResponse{
		Results: items,
		Summary: searchSummary{
			TotalFound:      len(items),
			ConfidenceLevel: string(out.Level()),
			SearchType:      string(out.Strategy()),
			FiltersApplied:  filtersToResponse(out.Filters()),
			RelaxationSteps: out.RelaxationSteps(),
			RelaxationPath:  out.RelaxationPath(),
			LowConfidence:   out.LowConfidence(),
		},
	}
}

func filtersToResponse(f query.FilterSet) appliedFilters {
	return appliedFilters{
		Brand:        f.Brand(),
		Category:     f.Category(),
		MinPrice:     f.MinPrice(),
		MaxPrice:     f.MaxPrice(),
		Availability: f.Availability(),
	}
}

func productToResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		Brand:       p.Brand(),
		Category:    p.Category(),
		Price:       p.Price(),
		Available:   p.Available(),
	}
}
