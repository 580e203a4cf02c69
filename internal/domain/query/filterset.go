package query

import (
	"fmt"
	"strings"

	"github.com/shoplens/shoplens/internal/domain/product"
)

// FilterSet is the structured filter extracted from a query. Values are
// immutable: every relaxation step returns a new FilterSet and leaves the
// prior one intact for audit logging.
type FilterSet struct {
	brand        string // normalized lowercase, empty = unset
	category     string // hierarchical path, empty = unset
	minPrice     *float64
	maxPrice     *float64
	availability *bool
}

// NewFilterSet creates a FilterSet. Empty strings and nil pointers mean the
// corresponding predicate is not applied.
func NewFilterSet(brand, category string, minPrice, maxPrice *float64, availability *bool) FilterSet {
	return FilterSet{
		brand:        strings.ToLower(strings.TrimSpace(brand)),
		category:     strings.ToLower(strings.TrimSpace(category)),
		minPrice:     copyFloat(minPrice),
		maxPrice:     copyFloat(maxPrice),
		availability: copyBool(availability),
	}
}

// Brand returns the brand predicate ("" = unset).
func (f FilterSet) Brand() string { return f.brand }

// Category returns the hierarchical category path predicate ("" = unset).
func (f FilterSet) Category() string { return f.category }

// MinPrice returns the lower price bound (nil = open).
func (f FilterSet) MinPrice() *float64 { return copyFloat(f.minPrice) }

// MaxPrice returns the upper price bound (nil = open).
func (f FilterSet) MaxPrice() *float64 { return copyFloat(f.maxPrice) }

// Availability returns the availability predicate (nil = unset).
func (f FilterSet) Availability() *bool { return copyBool(f.availability) }

// HasPrice reports whether a price predicate is applied.
func (f FilterSet) HasPrice() bool { return f.minPrice != nil || f.maxPrice != nil }

// IsEmpty reports whether no predicate is applied.
func (f FilterSet) IsEmpty() bool { return f.Count() == 0 }

// Count returns the number of applied predicates. The price range counts as
// one predicate regardless of how many bounds are set.
func (f FilterSet) Count() int {
	n := 0
	if f.brand != "" {
		n++
	}
	if f.category != "" {
		n++
	}
	if f.HasPrice() {
		n++
	}
	if f.availability != nil {
		n++
	}
	return n
}

// Matches evaluates every applied predicate against a product and returns
// how many matched out of how many were applied. Brand is exact equality on
// normalized values, category is hierarchical-prefix, price is inclusive
// band overlap, availability is exact equality.
func (f FilterSet) Matches(p product.Product) (matched, total int) {
	if f.brand != "" {
		total++
		if p.Brand() == f.brand {
			matched++
		}
	}
	if f.category != "" {
		total++
		if p.InCategory(f.category) {
			matched++
		}
	}
	if f.HasPrice() {
		total++
		if p.Band().Overlaps(f.minPrice, f.maxPrice) {
			matched++
		}
	}
	if f.availability != nil {
		total++
		if p.Available() == *f.availability {
			matched++
		}
	}
	return matched, total
}

// WithPriceWidened returns a copy with the price range widened by delta on
// both sides, the lower bound clamped at zero. A no-op when no price
// predicate is applied.
func (f FilterSet) WithPriceWidened(delta float64) FilterSet {
	out := f.clone()
	if out.minPrice != nil {
		lo := *out.minPrice - delta
		if lo < 0 {
			lo = 0
		}
		out.minPrice = &lo
	}
	if out.maxPrice != nil {
		hi := *out.maxPrice + delta
		out.maxPrice = &hi
	}
	return out
}

// WithoutBrand returns a copy with the brand predicate dropped.
func (f FilterSet) WithoutBrand() FilterSet {
	out := f.clone()
	out.brand = ""
	return out
}

// WithParentCategory returns a copy with the category replaced by its parent
// path (one level up). A top-level category is dropped entirely.
func (f FilterSet) WithParentCategory() FilterSet {
	out := f.clone()
	if out.category == "" {
		return out
	}
	idx := strings.LastIndex(out.category, "/")
	if idx <= 0 {
		out.category = ""
		return out
	}
	out.category = out.category[:idx]
	return out
}

// String renders the applied predicates for logging.
func (f FilterSet) String() string {
	parts := make([]string, 0, 4)
	if f.brand != "" {
		parts = append(parts, "brand="+f.brand)
	}
	if f.category != "" {
		parts = append(parts, "category="+f.category)
	}
	if f.minPrice != nil {
		parts = append(parts, fmt.Sprintf("min_price=%g", *f.minPrice))
	}
	if f.maxPrice != nil {
		parts = append(parts, fmt.Sprintf("max_price=%g", *f.maxPrice))
	}
	if f.availability != nil {
		parts = append(parts, fmt.Sprintf("availability=%t", *f.availability))
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (f FilterSet) clone() FilterSet {
	return FilterSet{
		brand:        f.brand,
		category:     f.category,
		minPrice:     copyFloat(f.minPrice),
		maxPrice:     copyFloat(f.maxPrice),
		availability: copyBool(f.availability),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
