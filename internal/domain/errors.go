package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct signals a product that failed validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrVectorDimMismatch signals an embedding dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyCleanText signals that filter stripping left no searchable text.
	// Non-fatal: callers substitute the original query text.
	ErrEmptyCleanText = errors.New("cleaned query text is empty")
	// ErrEmptyCandidatePool signals that a filter set matched zero products.
	// Recoverable: the relaxation controller treats it as confidence zero.
	ErrEmptyCandidatePool = errors.New("empty candidate pool")
	// ErrIndexUnavailable signals a failure of the vector or keyword index.
	// Fatal for the current query; never substituted with default scores.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
