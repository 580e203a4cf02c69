package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/product"
)

// Service embeds product text and writes it into the catalog and the
// search index.
type Service struct {
	catalog CatalogWriter
	index   ChunkIndexer
	embed   domain.Embedder
	chunker *Chunker
	logger  *zap.Logger
}

func New(catalog CatalogWriter, index ChunkIndexer, embed domain.Embedder, chunker *Chunker, logger *zap.Logger) *Service {
	if chunker == nil {
		chunker = NewChunker(0, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog: catalog,
		index:   index,
		embed:   embed,
		chunker: chunker,
		logger:  logger,
	}
}

// IndexProduct validates nothing itself: the product value object is already
// valid by construction. It chunks the composed text, embeds every chunk,
// then persists metadata and vectors. The catalog write happens before the
// index write so a failed index never leaves orphan chunks without metadata.
func (s *Service) IndexProduct(ctx context.Context, p product.Product) error {
	text := ComposeText(p)
	chunks := s.chunker.Chunk(text, p.ID())

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	batch, err := s.embedAll(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed product %s: %w", p.ID(), err)
	}

	if err := s.catalog.Put(ctx, p); err != nil {
		return fmt.Errorf("store product %s: %w", p.ID(), err)
	}
	if err := s.index.IndexChunks(ctx, p, chunks, batch.Embeddings); err != nil {
		return fmt.Errorf("index product %s: %w", p.ID(), err)
	}

	s.logger.Info("product indexed",
		zap.String("product_id", p.ID()),
		zap.Int("chunks", len(chunks)),
		zap.Int("tokens", batch.TotalTokens),
	)
	return nil
}

// RemoveProduct deletes the product's chunks and then its catalog entry.
// Chunks go first so a partial failure never leaves searchable chunks for a
// product the pre-filter no longer knows about.
func (s *Service) RemoveProduct(ctx context.Context, productID string) error {
	if err := s.index.DeleteChunks(ctx, productID); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", productID, err)
	}
	if err := s.catalog.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product %s: %w", productID, err)
	}

	s.logger.Info("product removed", zap.String("product_id", productID))
	return nil
}

func (s *Service) embedAll(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, s.embed, texts)
}

// ComposeText flattens a product into the text that gets embedded. Field
// labels give the embedding model structure to latch onto.
func ComposeText(p product.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s.", p.Title())
	if p.Brand() != product.UnknownBrand {
		fmt.Fprintf(&b, " Brand: %s.", p.Brand())
	}
	fmt.Fprintf(&b, " Category: %s.", strings.ReplaceAll(p.Category(), "/", " > "))
	fmt.Fprintf(&b, " Price: $%.2f.", p.Price())
	if p.Description() != "" {
		fmt.Fprintf(&b, " Description: %s", p.Description())
	}
	return b.String()
}
