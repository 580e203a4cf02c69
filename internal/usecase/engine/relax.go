package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shoplens/shoplens/internal/domain/query"
	"github.com/shoplens/shoplens/internal/domain/search/candidate"
	"github.com/shoplens/shoplens/internal/domain/search/strategy"
)

// relaxState is one step of the bounded relaxation state machine. States run
// in this fixed order; the machine enters at most all four, which bounds
// every query execution.
type relaxState int

const (
	statePriceRelax relaxState = iota
	stateBrandRelax
	stateCategoryRelax
	stateFinalFallback
)

func (st relaxState) String() string {
	switch st {
	case statePriceRelax:
		return "price_relax"
	case stateBrandRelax:
		return "brand_relax"
	case stateCategoryRelax:
		return "category_relax"
	case stateFinalFallback:
		return "final_fallback"
	default:
		return fmt.Sprintf("relax_state(%d)", int(st))
	}
}

// apply returns the relaxed filter set for this state. Relaxations are pure
// transformations; the input filter set is never mutated.
func (st relaxState) apply(fs query.FilterSet, priceWiden float64) query.FilterSet {
	switch st {
	case statePriceRelax:
		return fs.WithPriceWidened(priceWiden)
	case stateBrandRelax:
		return fs.WithoutBrand()
	case stateCategoryRelax:
		return fs.WithParentCategory()
	default:
		return fs
	}
}

// relaxResult is what the controller hands back to the search flow.
type relaxResult struct {
	candidates    []candidate.Candidate
	filters       query.FilterSet
	steps         int
	path          []string
	lowConfidence bool
}

// relax runs the relaxation state machine: each state loosens the filter set,
// re-runs pre-filter + hybrid search + scoring, and advances only while the
// best confidence stays below the threshold. An empty candidate pool counts
// as confidence zero and advances immediately. FinalFallback is terminal and
// returns the best candidates seen across all states — including the primary
// and hybrid stages passed in as seed — flagged low-confidence. Caller
// cancellation aborts the loop between states.
func (s *Service) relax(
	ctx context.Context,
	emb []float32,
	text string,
	filters query.FilterSet,
	topK int,
	seed []candidate.Candidate,
) (relaxResult, error) {
	best := seed
	bestScore := bestConfidence(seed)
	bestFilters := filters

	current := filters
	path := make([]string, 0, 4)
	steps := 0

	for st := statePriceRelax; st <= stateCategoryRelax; st++ {
		if err := ctx.Err(); err != nil {
			return relaxResult{}, fmt.Errorf("relaxation aborted: %w", err)
		}

		current = st.apply(current, s.cfg.PriceWidenStep)
		path = append(path, st.String())
		steps++

		cands, err := s.searchHybrid(ctx, emb, text, current, topK, strategy.Relaxed)
		if err != nil {
			return relaxResult{}, err
		}

		score := bestConfidence(cands)
		s.logger.Debug("relaxation state evaluated",
			zap.String("state", st.String()),
			zap.String("filters", current.String()),
			zap.Float64("best_confidence", score),
			zap.Int("candidates", len(cands)))

		if score > bestScore || (len(best) == 0 && len(cands) > 0) {
			best = cands
			bestScore = score
			bestFilters = current
		}

		if score >= s.cfg.ConfidenceThreshold {
			return relaxResult{
				candidates: cands,
				filters:    current,
				steps:      steps,
				path:       path,
			}, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return relaxResult{}, fmt.Errorf("relaxation aborted: %w", err)
	}

	// FinalFallback: never raises on low score. If every filtered pool came
	// up empty, search the unfiltered universe so a non-empty catalog still
	// yields a result.
	path = append(path, stateFinalFallback.String())
	if len(best) == 0 {
		unfiltered := query.FilterSet{}
		cands, err := s.searchHybrid(ctx, emb, text, unfiltered, topK, strategy.Relaxed)
		if err != nil {
			return relaxResult{}, err
		}
		best = cands
		bestFilters = unfiltered
	}

	return relaxResult{
		candidates:    retagRelaxed(best),
		filters:       bestFilters,
		steps:         steps,
		path:          path,
		lowConfidence: true,
	}, nil
}

// retagRelaxed rebuilds candidates with source=relaxed. The fallback may
// return candidates that were produced by the primary or hybrid stage.
func retagRelaxed(cands []candidate.Candidate) []candidate.Candidate {
	out := make([]candidate.Candidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, candidate.New(
			c.ProductID(), c.ChunkID(),
			c.Similarity(), c.MetadataMatch(), c.Confidence(),
			strategy.Relaxed,
		))
	}
	return out
}
