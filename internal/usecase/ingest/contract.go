package ingest

import (
	"context"

	"github.com/shoplens/shoplens/internal/domain/product"
)

// CatalogWriter persists product metadata for the pre-filter.
type CatalogWriter interface {
	Put(ctx context.Context, p product.Product) error
	Delete(ctx context.Context, id string) error
}

// ChunkIndexer writes embedded chunks into the search index.
type ChunkIndexer interface {
	EnsureIndex(ctx context.Context, dimensions int) error
	IndexChunks(ctx context.Context, p product.Product, chunks []Chunk, vectors [][]float32) error
	DeleteChunks(ctx context.Context, productID string) error
}
