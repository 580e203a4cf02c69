package product

import (
	"fmt"
	"strings"

	"github.com/shoplens/shoplens/internal/domain"
)

// Field length limits applied during normalization.
const (
	MinTitleLen       = 5
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// UnknownBrand is the normalized brand for products without one.
const UnknownBrand = "unknown"

// DefaultCategory is the hierarchical path for uncategorized products.
const DefaultCategory = "general/uncategorized"

// Product is a validated catalog entry.
type Product struct {
	id          string
	title       string
	description string
	brand       string
	category    string
	price       float64
	available   bool
}

// New validates, normalizes, and creates a Product.
// Brand is lowercased ("unknown" when empty), category defaults to the
// uncategorized path, overlong title/description are truncated rather
// than rejected.
func New(id, title, description, brand, category string, price float64, available bool) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: product id is required", domain.ErrInvalidProduct)
	}

	title = strings.TrimSpace(title)
	if len(title) < MinTitleLen {
		return Product{}, fmt.Errorf("%w: title must be at least %d characters", domain.ErrInvalidProduct, MinTitleLen)
	}
	if len(title) > MaxTitleLen {
		title = title[:MaxTitleLen]
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = "No description available"
	}
	if len(description) > MaxDescriptionLen {
		description = description[:MaxDescriptionLen]
	}

	brand = strings.ToLower(strings.TrimSpace(brand))
	if brand == "" {
		brand = UnknownBrand
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = DefaultCategory
	}

	if price <= 0 {
		return Product{}, fmt.Errorf("%w: price must be positive, got %v", domain.ErrInvalidProduct, price)
	}

	return Product{
		id:          id,
		title:       title,
		description: description,
		brand:       brand,
		category:    category,
		price:       price,
		available:   available,
	}, nil
}

// Reconstruct builds a Product from trusted storage without re-validation.
func Reconstruct(id, title, description, brand, category string, price float64, available bool) Product {
	return Product{
		id:          id,
		title:       title,
		description: description,
		brand:       brand,
		category:    category,
		price:       price,
		available:   available,
	}
}

// ID returns the product identifier.
func (p Product) ID() string { return p.id }

// Title returns the product title.
func (p Product) Title() string { return p.title }

// Description returns the product description.
func (p Product) Description() string { return p.description }

// Brand returns the normalized (lowercase) brand.
func (p Product) Brand() string { return p.brand }

// Category returns the hierarchical category path (e.g. "electronics/audio").
func (p Product) Category() string { return p.category }

// Price returns the product price.
func (p Product) Price() float64 { return p.price }

// Available reports whether the product is in stock.
func (p Product) Available() bool { return p.available }

// Band returns the price band the product falls into.
func (p Product) Band() PriceBand { return BandOf(p.price) }

// InCategory reports whether the product's category starts with the given
// hierarchical path prefix ("electronics/audio" matches "electronics/audio"
// and "electronics/audio/headphones").
func (p Product) InCategory(path string) bool {
	if path == "" {
		return true
	}
	if p.category == path {
		return true
	}
	return strings.HasPrefix(p.category, path+"/")
}
