package ingest

import (
	"regexp"
	"strings"

	"github.com/shoplens/shoplens/internal/domain/product"
)

// Raw catalog category labels mapped onto the canonical taxonomy the
// pre-filter operates on.
var categoryAliases = map[string]string{
	"computers&accessories": product.CategoryComputers,
	"computers":             product.CategoryComputers,
	"laptops":               product.CategoryLaptops,
	"electronics":           product.CategoryElectronics,
	"headphones":            product.CategoryHeadphones,
	"audio":                 product.CategoryAudio,
	"speakers":              product.CategorySpeakers,
	"mobiles&accessories":   product.CategoryPhones,
	"phones":                product.CategoryPhones,
	"smartphones":           product.CategorySmartphones,
	"wearables":             product.CategoryWearables,
	"cameras":               product.CategoryCameras,
	"tv&appliances":         product.CategoryTV,
	"gaming":                product.CategoryGaming,
	"home&kitchen":          product.CategoryKitchen,
	"kitchen":               product.CategoryKitchen,
	"appliances":            product.CategoryAppliances,
	"homeappliances":        product.CategoryAppliances,
	"furniture":             product.CategoryFurniture,
	"sports&fitness":        product.CategoryFitness,
	"sports&outdoors":       product.CategoryOutdoor,
	"outdoor":               product.CategoryOutdoor,
	"clothing":              product.CategoryClothing,
	"shoes":                 product.CategoryShoes,
	"books":                 product.CategoryBooks,
	"toys&games":            product.CategoryToys,
	"toys":                  product.CategoryToys,
	"beauty&personalcare":   product.CategoryPersonalCare,
	"beauty":                product.CategoryPersonalCare,
}

var reCategorySep = regexp.MustCompile(`\s*[|,>/]\s*`)

// NormalizeCategory turns a raw catalog category label into a lowercase
// slash-separated hierarchical path, at most three levels deep. Unknown
// labels are slugged segment by segment.
func NormalizeCategory(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}

	compact := strings.ReplaceAll(raw, " ", "")
	if path, ok := categoryAliases[compact]; ok {
		return path
	}

	segments := reCategorySep.Split(raw, -1)
	parts := make([]string, 0, 3)
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if mapped, ok := categoryAliases[strings.ReplaceAll(seg, " ", "")]; ok {
			// A mapped segment resets the path to its canonical position.
			parts = strings.Split(mapped, "/")
		} else {
			parts = append(parts, slugSegment(seg))
		}
		if len(parts) >= 3 {
			parts = parts[:3]
			break
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "/")
}

var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugSegment(seg string) string {
	seg = strings.ReplaceAll(seg, "&", " and ")
	seg = reSlug.ReplaceAllString(seg, " ")
	return strings.Join(strings.Fields(seg), "-")
}
