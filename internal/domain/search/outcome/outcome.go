package outcome

import (
	"github.com/shoplens/shoplens/internal/domain/query"
	"github.com/shoplens/shoplens/internal/domain/search/candidate"
	"github.com/shoplens/shoplens/internal/domain/search/strategy"
)

// Level is the derived confidence label for an outcome or result.
type Level string

// Confidence level labels.
const (
	LevelHigh    Level = "high"     // >= 0.8
	LevelGood    Level = "good"     // [0.6, 0.8)
	LevelLow     Level = "low"      // [0.4, 0.6)
	LevelVeryLow Level = "very_low" // < 0.4
)

// LevelOf maps a confidence score to its label.
func LevelOf(confidence float64) Level {
	switch {
	case confidence >= 0.8:
		return LevelHigh
	case confidence >= 0.6:
		return LevelGood
	case confidence >= 0.4:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// Outcome is the terminal artifact of one query execution: the ranked,
// deduplicated candidates plus enough metadata for callers to render a
// response. Request-scoped; never shared across queries.
type Outcome struct {
	results         []candidate.Candidate
	strategyUsed    strategy.Strategy
	filtersApplied  query.FilterSet
	relaxationSteps int
	relaxationPath  []string
	lowConfidence   bool
}

// New creates an Outcome.
func New(
	results []candidate.Candidate,
	strategyUsed strategy.Strategy,
	filtersApplied query.FilterSet,
	relaxationSteps int,
	relaxationPath []string,
	lowConfidence bool,
) Outcome {
	return Outcome{
		results:         results,
		strategyUsed:    strategyUsed,
		filtersApplied:  filtersApplied,
		relaxationSteps: relaxationSteps,
		relaxationPath:  relaxationPath,
		lowConfidence:   lowConfidence,
	}
}

// Results returns the ranked candidates (descending confidence, at most
// top-K, one per product).
func (o Outcome) Results() []candidate.Candidate { return o.results }

// Strategy returns the search path that produced the results.
func (o Outcome) Strategy() strategy.Strategy { return o.strategyUsed }

// Filters returns the filter set active when the results were scored.
func (o Outcome) Filters() query.FilterSet { return o.filtersApplied }

// RelaxationSteps returns how many relaxation transformations ran.
func (o Outcome) RelaxationSteps() int { return o.relaxationSteps }

// RelaxationPath returns the ordered names of relaxation states entered.
func (o Outcome) RelaxationPath() []string { return o.relaxationPath }

// LowConfidence reports whether the outcome came from the terminal fallback
// without clearing the confidence threshold.
func (o Outcome) LowConfidence() bool { return o.lowConfidence }

// BestConfidence returns the confidence of the top result, or 0 when empty.
func (o Outcome) BestConfidence() float64 {
	if len(o.results) == 0 {
		return 0
	}
	return o.results[0].Confidence()
}

// Level returns the confidence label of the top result.
func (o Outcome) Level() Level {
	return LevelOf(o.BestConfidence())
}
