package catalog

import (
	"strconv"

	"github.com/shoplens/shoplens/internal/domain/product"
)

// buildHashFields converts a domain Product into a flat map[string]string for HSET.
func buildHashFields(p product.Product) map[string]string {
	return map[string]string{
		"title":       p.Title(),
		"description": p.Description(),
		"brand":       p.Brand(),
		"category":    p.Category(),
		"price":       strconv.FormatFloat(p.Price(), 'f', -1, 64),
		"available":   strconv.FormatBool(p.Available()),
	}
}

// parseHashFields converts a flat hash map back into a domain Product.
func parseHashFields(id string, m map[string]string) product.Product {
	price, _ := strconv.ParseFloat(m["price"], 64)
	available, _ := strconv.ParseBool(m["available"])
	return product.Reconstruct(
		id,
		m["title"],
		m["description"],
		m["brand"],
		m["category"],
		price,
		available,
	)
}
