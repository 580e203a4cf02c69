package searchidx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shoplens/shoplens/internal/db"
	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/product"
	"github.com/shoplens/shoplens/internal/usecase/engine"
	"github.com/shoplens/shoplens/internal/usecase/ingest"
)

// Redis key layout for the chunk index.
const (
	IndexName      = domain.KeyPrefix + "chunks:idx"
	chunkKeyPrefix = domain.KeyPrefix + "chunk:"

	fieldPID    = "pid"
	fieldText   = "text"
	fieldVector = "vector"
	fieldPos    = "pos"
)

// store is the consumer interface for chunk persistence and search (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo maintains the FT chunk index: embedded product chunks stored as
// hashes with a product-id TAG for candidate restriction, a TEXT field for
// BM25, and an HNSW vector field for KNN.
type Repo struct {
	store store
}

// New creates a search index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the chunk index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, dimensions int) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     IndexName,
		Prefixes: []string{chunkKeyPrefix},
		Fields: []db.IndexField{
			{Name: fieldPID, Type: db.IndexFieldTag},
			{Name: fieldText, Type: db.IndexFieldText},
			{
				Name:           fieldVector,
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorHNSW,
				VectorDim:      dimensions,
				VectorDistance: db.DistanceCosine,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// IndexReady reports an error when the chunk index is missing or unreachable.
func (r *Repo) IndexReady(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if !exists {
		return fmt.Errorf("index %s: %w", IndexName, db.ErrIndexNotFound)
	}
	return nil
}

// IndexChunks writes one hash per chunk in a single pipelined round-trip.
// Chunk ids are stable, so re-indexing a product overwrites in place.
func (r *Repo) IndexChunks(ctx context.Context, p product.Product, chunks []ingest.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("index chunks: %d chunks but %d vectors", len(chunks), len(vectors))
	}

	items := make([]db.HashSetItem, len(chunks))
	for i, c := range chunks {
		items[i] = db.HashSetItem{
			Key: chunkKeyPrefix + c.ID,
			Fields: map[string]string{
				fieldPID:    p.ID(),
				fieldText:   c.Text,
				fieldVector: vectorToBytes(vectors[i]),
				fieldPos:    strconv.Itoa(c.Index),
			},
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("index chunks for %s: %w", p.ID(), err)
	}
	return nil
}

// DeleteChunks removes every chunk hash belonging to a product. Chunk ids
// embed the product id, so a key pattern scan finds them all.
func (r *Repo) DeleteChunks(ctx context.Context, productID string) error {
	pattern := chunkKeyPrefix + productID + "_chunk_*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return fmt.Errorf("scan chunks for %s: %w", productID, err)
	}
	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("delete chunk %s: %w", key, err)
		}
	}
	return nil
}

// Vector returns the KNN search adapter.
func (r *Repo) Vector() *VectorIndex { return &VectorIndex{repo: r} }

// Keyword returns the BM25 search adapter.
func (r *Repo) Keyword() *KeywordIndex { return &KeywordIndex{repo: r} }

// VectorIndex adapts the chunk index to the engine's similarity search
// contract: nil candidateIDs searches the whole index, an empty non-nil
// slice yields no hits.
type VectorIndex struct {
	repo *Repo
}

func (v *VectorIndex) Search(ctx context.Context, vector []float32, candidateIDs []string, k int) ([]engine.Hit, error) {
	sr, err := v.repo.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    IndexName,
		Vector:       vector,
		K:            k,
		Restrict:     restriction(candidateIDs),
		ReturnFields: []string{fieldPID, "__vector_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return toHits(sr, identityScore), nil
}

// KeywordIndex adapts the chunk index to the engine's lexical search
// contract. Raw BM25 scores are unbounded, so they are squashed into [0,1]
// with s/(s+1), which preserves ranking.
type KeywordIndex struct {
	repo *Repo
}

func (kw *KeywordIndex) Search(ctx context.Context, text string, candidateIDs []string, k int) ([]engine.Hit, error) {
	sr, err := kw.repo.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    IndexName,
		TextField:    fieldText,
		Query:        text,
		TopK:         k,
		Restrict:     restriction(candidateIDs),
		ReturnFields: []string{fieldPID},
	})
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return toHits(sr, normalizeBM25), nil
}

func restriction(candidateIDs []string) *db.Restriction {
	if candidateIDs == nil {
		return nil
	}
	return &db.Restriction{Field: fieldPID, Values: candidateIDs}
}

func toHits(sr *db.SearchResult, score func(float64) float64) []engine.Hit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}
	hits := make([]engine.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hits = append(hits, engine.Hit{
			ProductID: e.Fields[fieldPID],
			ChunkID:   strings.TrimPrefix(e.Key, chunkKeyPrefix),
			Score:     score(e.Score),
		})
	}
	return hits
}

func identityScore(s float64) float64 { return s }

func normalizeBM25(s float64) float64 {
	if s <= 0 {
		return 0
	}
	return s / (s + 1)
}
