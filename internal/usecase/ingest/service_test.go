package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/product"
)

type fakeCatalog struct {
	stored  []product.Product
	deleted []string
	err     error
}

func (f *fakeCatalog) Put(_ context.Context, p product.Product) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, p)
	return nil
}

func (f *fakeCatalog) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeIndexer struct {
	chunks  []Chunk
	vectors [][]float32
	dropped []string
	err     error
}

func (f *fakeIndexer) EnsureIndex(context.Context, int) error { return nil }

func (f *fakeIndexer) IndexChunks(_ context.Context, _ product.Product, chunks []Chunk, vectors [][]float32) error {
	if f.err != nil {
		return f.err
	}
	f.chunks = append(f.chunks, chunks...)
	f.vectors = append(f.vectors, vectors...)
	return nil
}

func (f *fakeIndexer) DeleteChunks(_ context.Context, productID string) error {
	if f.err != nil {
		return f.err
	}
	f.dropped = append(f.dropped, productID)
	return nil
}

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	f.calls++
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}, TotalTokens: len(strings.Fields(text))}, nil
}

func mustProduct(t *testing.T, id, title string) product.Product {
	t.Helper()
	p, err := product.New(id, title, "Solid build and long battery life.", "sony", "electronics/audio", 99.99, true)
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	return p
}

func TestIndexProduct_WritesCatalogAndIndex(t *testing.T) {
	catalog := &fakeCatalog{}
	indexer := &fakeIndexer{}
	embedder := &fakeEmbedder{}
	svc := New(catalog, indexer, embedder, nil, nil)

	p := mustProduct(t, "p1", "Wireless Headphones")
	if err := svc.IndexProduct(context.Background(), p); err != nil {
		t.Fatalf("IndexProduct: %v", err)
	}

	if len(catalog.stored) != 1 || catalog.stored[0].ID() != "p1" {
		t.Errorf("catalog writes = %v, want one for p1", catalog.stored)
	}
	if len(indexer.chunks) == 0 {
		t.Fatal("no chunks indexed")
	}
	if len(indexer.chunks) != len(indexer.vectors) {
		t.Errorf("chunks = %d, vectors = %d, want one vector per chunk", len(indexer.chunks), len(indexer.vectors))
	}
	if embedder.calls != len(indexer.chunks) {
		t.Errorf("embedder calls = %d, want %d", embedder.calls, len(indexer.chunks))
	}
}

func TestIndexProduct_CatalogFailureSkipsIndex(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("redis down")}
	indexer := &fakeIndexer{}
	svc := New(catalog, indexer, &fakeEmbedder{}, nil, nil)

	err := svc.IndexProduct(context.Background(), mustProduct(t, "p1", "Wireless Headphones"))
	if err == nil {
		t.Fatal("want error when catalog write fails")
	}
	if len(indexer.chunks) != 0 {
		t.Errorf("index received %d chunks after catalog failure, want 0", len(indexer.chunks))
	}
}

func TestRemoveProduct_DeletesChunksBeforeCatalog(t *testing.T) {
	catalog := &fakeCatalog{}
	indexer := &fakeIndexer{}
	svc := New(catalog, indexer, &fakeEmbedder{}, nil, nil)

	if err := svc.RemoveProduct(context.Background(), "p1"); err != nil {
		t.Fatalf("RemoveProduct: %v", err)
	}
	if len(indexer.dropped) != 1 || indexer.dropped[0] != "p1" {
		t.Errorf("chunk deletes = %v, want one for p1", indexer.dropped)
	}
	if len(catalog.deleted) != 1 || catalog.deleted[0] != "p1" {
		t.Errorf("catalog deletes = %v, want one for p1", catalog.deleted)
	}
}

func TestRemoveProduct_ChunkFailureSkipsCatalog(t *testing.T) {
	catalog := &fakeCatalog{}
	indexer := &fakeIndexer{err: errors.New("redis down")}
	svc := New(catalog, indexer, &fakeEmbedder{}, nil, nil)

	if err := svc.RemoveProduct(context.Background(), "p1"); err == nil {
		t.Fatal("want error when chunk delete fails")
	}
	if len(catalog.deleted) != 0 {
		t.Errorf("catalog deletes = %v after chunk failure, want none", catalog.deleted)
	}
}

func TestComposeText(t *testing.T) {
	p := mustProduct(t, "p1", "Wireless Headphones")
	text := ComposeText(p)

	for _, want := range []string{
		"Product: Wireless Headphones.",
		"Brand: sony.",
		"Category: electronics > audio.",
		"Price: $99.99.",
		"Description: Solid build",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text = %q, missing %q", text, want)
		}
	}
}

func TestComposeText_OmitsUnknownBrand(t *testing.T) {
	p, err := product.New("p2", "Generic Cable", "", "", "", 9.99, true)
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	if text := ComposeText(p); strings.Contains(text, "Brand:") {
		t.Errorf("text = %q, want no brand line for unknown brand", text)
	}
}
