// Package shoplens is an embeddable product search engine: natural-language
// queries are split into search text and structured filters, matched against
// embedded catalog chunks, and ranked by a blended confidence score with
// bounded filter relaxation when confidence stays low.
package shoplens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/shoplens/shoplens/internal/db/redis"
	"github.com/shoplens/shoplens/internal/domain"
	catalogrepo "github.com/shoplens/shoplens/internal/repository/catalog"
	searchidxrepo "github.com/shoplens/shoplens/internal/repository/searchidx"
	engineuc "github.com/shoplens/shoplens/internal/usecase/engine"
	extractuc "github.com/shoplens/shoplens/internal/usecase/extract"
	ingestuc "github.com/shoplens/shoplens/internal/usecase/ingest"
)

const defaultReadinessTimeout = 10 * time.Second

// DefaultDimensions is the embedding width used when none is configured.
const DefaultDimensions = 1536

// Client is the shoplens SDK entry point.
type Client struct {
	store   *dbRedis.Store
	engine  *engineuc.Service
	ingest  *ingestuc.Service
	catalog *catalogrepo.Repo
}

// New creates a shoplens Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dimensions: DefaultDimensions,
		logger:     zap.NewNop(),
		engine:     engineuc.DefaultConfig(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("shoplens: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("shoplens: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("shoplens: database not ready: %w", err)
	}

	return wireClient(ctx, store, cfg)
}

func wireClient(ctx context.Context, store *dbRedis.Store, cfg *clientConfig) (*Client, error) {
	var domEmb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	catalogRepo := catalogrepo.New(store)
	indexRepo := searchidxrepo.New(store)

	if err := indexRepo.EnsureIndex(ctx, cfg.dimensions); err != nil {
		store.Close()
		return nil, fmt.Errorf("shoplens: ensure chunk index: %w", err)
	}

	engineSvc := engineuc.New(
		cfg.engine,
		extractuc.New(),
		indexRepo.Vector(),
		indexRepo.Keyword(),
		catalogRepo,
		domEmb,
		cfg.logger,
	)
	ingestSvc := ingestuc.New(catalogRepo, indexRepo, domEmb, nil, cfg.logger)

	return &Client{
		store:   store,
		engine:  engineSvc,
		ingest:  ingestSvc,
		catalog: catalogRepo,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs one query execution. topK <= 0 uses the configured default.
func (c *Client) Search(ctx context.Context, query string, topK int) (SearchOutcome, error) {
	out, err := c.engine.Search(ctx, query, topK)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("search: %w", err)
	}
	return outcomeFromDomain(out), nil
}

// IndexProduct validates a product, embeds its text, and writes it into the
// catalog and the chunk index. The category label is normalized into a
// canonical hierarchical path.
func (c *Client) IndexProduct(ctx context.Context, p Product) error {
	dp, err := newDomainProduct(p)
	if err != nil {
		return err
	}
	if err := c.ingest.IndexProduct(ctx, dp); err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	return nil
}

// GetProduct fetches a product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := c.catalog.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return productFromDomain(p), nil
}

// RemoveProduct deletes a product and its indexed chunks.
func (c *Client) RemoveProduct(ctx context.Context, id string) error {
	if err := c.ingest.RemoveProduct(ctx, id); err != nil {
		return fmt.Errorf("remove product: %w", err)
	}
	return nil
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"shoplens: embedder not configured (use WithEmbedder)",
	)
}
