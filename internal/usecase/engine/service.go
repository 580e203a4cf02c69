package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/query"
	"github.com/shoplens/shoplens/internal/domain/search/candidate"
	"github.com/shoplens/shoplens/internal/domain/search/outcome"
	"github.com/shoplens/shoplens/internal/domain/search/strategy"
)

// Config holds the engine tunables. Thresholds and weights are configuration,
// not hidden literals, so the state machine is testable with alternates.
type Config struct {
	// ConfidenceThreshold gates hybrid escalation and relaxation advance.
	ConfidenceThreshold float64
	// SimilarityWeight and MetadataWeight blend the confidence score.
	SimilarityWeight float64
	MetadataWeight   float64
	// VectorWeight and KeywordWeight blend hybrid fusion.
	VectorWeight  float64
	KeywordWeight float64
	// TopK is the default result count.
	TopK int
	// PoolMultiplier scales the candidate pool once hybrid fusion begins.
	PoolMultiplier int
	// PriceWidenStep is how far the price range widens per relaxation.
	PriceWidenStep float64
}

// DefaultConfig returns the standard engine settings.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.6,
		SimilarityWeight:    0.7,
		MetadataWeight:      0.3,
		VectorWeight:        0.7,
		KeywordWeight:       0.3,
		TopK:                10,
		PoolMultiplier:      3,
		PriceWidenStep:      50,
	}
}

// Service executes queries: filter extraction, pre-filtered vector search,
// hybrid fusion, bounded filter relaxation, and top-K selection. Stateless
// across requests; safe for concurrent use.
type Service struct {
	cfg     Config
	extract Extractor
	vec     VectorIndex
	kw      KeywordIndex
	catalog Catalog
	embed   domain.Embedder
	logger  *zap.Logger
}

// New creates a search engine service.
func New(
	cfg Config,
	extract Extractor,
	vec VectorIndex,
	kw KeywordIndex,
	catalog Catalog,
	embed domain.Embedder,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:     cfg,
		extract: extract,
		vec:     vec,
		kw:      kw,
		catalog: catalog,
		embed:   embed,
		logger:  logger,
	}
}

// Search runs one query execution end to end and returns the ranked outcome.
// topK <= 0 uses the configured default.
func (s *Service) Search(ctx context.Context, rawQuery string, topK int) (outcome.Outcome, error) {
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	q := query.New(rawQuery)
	if q.Normalized() == "" {
		return outcome.Outcome{}, fmt.Errorf("query is required")
	}

	clean, filters, err := s.extract.Extract(q)
	if errors.Is(err, domain.ErrEmptyCleanText) {
		// Non-fatal: fall back to the full query text.
		clean = q.Normalized()
		s.logger.Warn("filter extraction left no search text, using raw query",
			zap.String("query", q.Normalized()))
	} else if err != nil {
		return outcome.Outcome{}, fmt.Errorf("extract filters: %w", err)
	}

	embRes, err := s.embed.Embed(ctx, clean)
	if err != nil {
		return outcome.Outcome{}, fmt.Errorf("embed query: %w", err)
	}
	emb := embRes.Embedding

	// Primary: plain filtered vector search, pool exactly topK.
	primary, err := s.searchPrimary(ctx, emb, filters, topK)
	if err != nil {
		return outcome.Outcome{}, err
	}
	if bestConfidence(primary) >= s.cfg.ConfidenceThreshold {
		return s.finish(primary, strategy.Primary, filters, 0, nil, false, topK), nil
	}

	// Hybrid: vector + keyword over a 3x pool, union fusion.
	hybrid, err := s.searchHybrid(ctx, emb, clean, filters, topK, strategy.Hybrid)
	if err != nil {
		return outcome.Outcome{}, err
	}
	if bestConfidence(hybrid) >= s.cfg.ConfidenceThreshold {
		return s.finish(hybrid, strategy.Hybrid, filters, 0, nil, false, topK), nil
	}

	// Seed relaxation with the better of the two exhausted stages.
	seed := hybrid
	if bestConfidence(primary) > bestConfidence(hybrid) {
		seed = primary
	}

	res, err := s.relax(ctx, emb, clean, filters, topK, seed)
	if err != nil {
		return outcome.Outcome{}, err
	}
	return s.finish(
		res.candidates, strategy.Relaxed, res.filters,
		res.steps, res.path, res.lowConfidence, topK,
	), nil
}

// finish runs the result selector and assembles the outcome.
func (s *Service) finish(
	cands []candidate.Candidate,
	strat strategy.Strategy,
	filters query.FilterSet,
	steps int,
	path []string,
	lowConfidence bool,
	topK int,
) outcome.Outcome {
	results := selectTop(cands, topK)
	return outcome.New(results, strat, filters, steps, path, lowConfidence)
}

// searchPrimary runs pre-filter + vector search + scoring.
func (s *Service) searchPrimary(
	ctx context.Context, emb []float32, filters query.FilterSet, k int,
) ([]candidate.Candidate, error) {
	ids, err := s.prefilter(ctx, filters)
	if errors.Is(err, domain.ErrEmptyCandidatePool) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	hits, err := s.vec.Search(ctx, emb, ids, k)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %w", domain.ErrIndexUnavailable, err)
	}

	return s.score(ctx, hits, filters, strategy.Primary)
}

// searchHybrid runs pre-filter + concurrent vector/keyword search + fusion +
// scoring over a pool of PoolMultiplier*k. The two index calls are
// independent of each other; this fan-out is the engine's only parallel
// region.
func (s *Service) searchHybrid(
	ctx context.Context, emb []float32, text string,
	filters query.FilterSet, k int, source strategy.Strategy,
) ([]candidate.Candidate, error) {
	ids, err := s.prefilter(ctx, filters)
	if errors.Is(err, domain.ErrEmptyCandidatePool) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pool := k * s.cfg.PoolMultiplier

	var vecHits, kwHits []Hit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.vec.Search(gctx, emb, ids, pool)
		if err != nil {
			return fmt.Errorf("%w: vector search: %w", domain.ErrIndexUnavailable, err)
		}
		vecHits = h
		return nil
	})
	g.Go(func() error {
		h, err := s.kw.Search(gctx, text, ids, pool)
		if err != nil {
			return fmt.Errorf("%w: keyword search: %w", domain.ErrIndexUnavailable, err)
		}
		kwHits = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := fuseHits(vecHits, kwHits, s.cfg.VectorWeight, s.cfg.KeywordWeight)
	return s.score(ctx, fused, filters, source)
}

// prefilter narrows the candidate universe. A nil slice means unrestricted;
// a filter set that matches nothing returns ErrEmptyCandidatePool, which the
// search stages treat as confidence zero rather than a failure.
func (s *Service) prefilter(ctx context.Context, filters query.FilterSet) ([]string, error) {
	if filters.IsEmpty() {
		return nil, nil
	}
	ids, err := s.catalog.Filter(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("pre-filter candidates: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyCandidatePool, filters.String())
	}
	return ids, nil
}

func bestConfidence(cands []candidate.Candidate) float64 {
	best := 0.0
	for _, c := range cands {
		if c.Confidence() > best {
			best = c.Confidence()
		}
	}
	return best
}
