package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/query"
)

// Fraction of the target price used for "around $X" ranges (±20%).
const aroundSpread = 0.2

// Price pattern families. Matching is against normalized (lowercase,
// space-collapsed) text, so patterns stay lowercase. Numbers may carry
// thousands separators; anything non-numeric after stripping them is
// ignored rather than rejected.
var (
	reBetween = regexp.MustCompile(`\bbetween \$?(\d[\d,]*(?:\.\d+)?) and \$?(\d[\d,]*(?:\.\d+)?)`)
	reRange   = regexp.MustCompile(`\$(\d[\d,]*(?:\.\d+)?) ?(?:-|to) ?\$?(\d[\d,]*(?:\.\d+)?)`)
	reAround  = regexp.MustCompile(`\b(?:around|about|approximately|roughly) \$?(\d[\d,]*(?:\.\d+)?)`)
	reUnder   = regexp.MustCompile(`\b(?:under|below|less than|cheaper than|at most|up to) \$?(\d[\d,]*(?:\.\d+)?)`)
	reOver    = regexp.MustCompile(`\b(?:over|above|more than|at least) \$?(\d[\d,]*(?:\.\d+)?)`)

	reAvailable = regexp.MustCompile(`\b(?:in stock|available now|available)\b`)
)

// Service parses free-text product queries into a clean search phrase plus a
// structured filter set.
type Service struct {
	brands     map[string]string
	categories map[string]string
}

// New creates a filter extractor with the default brand and category tables.
func New() *Service {
	return NewWithTables(defaultBrands(), defaultCategories())
}

// NewWithTables creates a filter extractor with custom lookup tables.
// Keys must be lowercase.
func NewWithTables(brands, categories map[string]string) *Service {
	return &Service{brands: brands, categories: categories}
}

// Extract parses the query into (clean search text, FilterSet). Matched
// filter phrases are removed from the text and the remainder is
// whitespace-normalized. When nothing remains it returns
// domain.ErrEmptyCleanText; callers must then search with the original
// query text, never an empty string.
func (s *Service) Extract(q query.Query) (string, query.FilterSet, error) {
	text := q.Normalized()

	text, minPrice, maxPrice := extractPrice(text)
	text, available := extractAvailability(text)
	text, brand := s.extractBrand(text)
	text, category := s.extractCategory(text)

	fs := query.NewFilterSet(brand, category, minPrice, maxPrice, available)

	clean := query.Normalize(text)
	if clean == "" {
		return "", fs, domain.ErrEmptyCleanText
	}
	return clean, fs, nil
}

// extractPrice tries the price families in specificity order: an explicit
// range beats "around", which beats one-sided bounds. Only the first
// matching family is consumed.
func extractPrice(text string) (remainder string, minPrice, maxPrice *float64) {
	if m := reBetween.FindStringSubmatchIndex(text); m != nil {
		lo, loOK := parsePrice(text[m[2]:m[3]])
		hi, hiOK := parsePrice(text[m[4]:m[5]])
		if loOK && hiOK {
			return cut(text, m[0], m[1]), &lo, &hi
		}
	}
	if m := reRange.FindStringSubmatchIndex(text); m != nil {
		lo, loOK := parsePrice(text[m[2]:m[3]])
		hi, hiOK := parsePrice(text[m[4]:m[5]])
		if loOK && hiOK {
			return cut(text, m[0], m[1]), &lo, &hi
		}
	}
	if m := reAround.FindStringSubmatchIndex(text); m != nil {
		if v, ok := parsePrice(text[m[2]:m[3]]); ok {
			lo := v * (1 - aroundSpread)
			hi := v * (1 + aroundSpread)
			return cut(text, m[0], m[1]), &lo, &hi
		}
	}
	if m := reUnder.FindStringSubmatchIndex(text); m != nil {
		if v, ok := parsePrice(text[m[2]:m[3]]); ok {
			return cut(text, m[0], m[1]), nil, &v
		}
	}
	if m := reOver.FindStringSubmatchIndex(text); m != nil {
		if v, ok := parsePrice(text[m[2]:m[3]]); ok {
			return cut(text, m[0], m[1]), &v, nil
		}
	}
	return text, nil, nil
}

func extractAvailability(text string) (string, *bool) {
	m := reAvailable.FindStringIndex(text)
	if m == nil {
		return text, nil
	}
	v := true
	return cut(text, m[0], m[1]), &v
}

func (s *Service) extractBrand(text string) (string, string) {
	words := strings.Fields(text)
	for i, w := range words {
		if canonical, ok := s.brands[w]; ok {
			return strings.Join(append(words[:i:i], words[i+1:]...), " "), canonical
		}
	}
	return text, ""
}

func (s *Service) extractCategory(text string) (string, string) {
	words := strings.Fields(text)
	for _, w := range words {
		if path, ok := s.categories[w]; ok {
			// Category keywords stay in the search text: "headphones" is
			// both a filter and a meaningful search term.
			return text, path
		}
	}
	return text, ""
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func cut(text string, start, end int) string {
	return text[:start] + " " + text[end:]
}
