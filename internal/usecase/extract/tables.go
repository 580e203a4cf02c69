package extract

import "github.com/shoplens/shoplens/internal/domain/product"

// defaultBrands maps lowercase brand tokens and product-line aliases to the
// canonical manufacturer name.
func defaultBrands() map[string]string {
	return map[string]string{
		"sony":        "sony",
		"playstation": "sony",
		"walkman":     "sony",
		"samsung":     "samsung",
		"galaxy":      "samsung",
		"apple":       "apple",
		"iphone":      "apple",
		"ipad":        "apple",
		"macbook":     "apple",
		"airpods":     "apple",
		"bose":        "bose",
		"jbl":         "jbl",
		"sennheiser":  "sennheiser",
		"logitech":    "logitech",
		"dell":        "dell",
		"hp":          "hp",
		"lenovo":      "lenovo",
		"thinkpad":    "lenovo",
		"asus":        "asus",
		"acer":        "acer",
		"nike":        "nike",
		"adidas":      "adidas",
		"puma":        "puma",
		"lego":        "lego",
		"philips":     "philips",
		"panasonic":   "panasonic",
		"lg":          "lg",
		"xiaomi":      "xiaomi",
		"anker":       "anker",
		"boat":        "boat",
	}
}

// defaultCategories maps query keywords to canonical category paths from the
// shared taxonomy, so every extracted filter can prefix-match an ingested
// product. Keywords not present here are simply left in the search text.
func defaultCategories() map[string]string {
	return map[string]string{
		"headphones":  product.CategoryAudio,
		"headphone":   product.CategoryAudio,
		"earbuds":     product.CategoryAudio,
		"earphones":   product.CategoryAudio,
		"speaker":     product.CategoryAudio,
		"speakers":    product.CategoryAudio,
		"soundbar":    product.CategoryAudio,
		"laptop":      product.CategoryComputers,
		"laptops":     product.CategoryComputers,
		"keyboard":    product.CategoryComputers,
		"mouse":       product.CategoryComputers,
		"monitor":     product.CategoryComputers,
		"smartphone":  product.CategoryPhones,
		"smartphones": product.CategoryPhones,
		"phone":       product.CategoryPhones,
		"phones":      product.CategoryPhones,
		"tablet":      product.CategoryPhones,
		"charger":     product.CategoryPhones,
		"tv":          product.CategoryTV,
		"television":  product.CategoryTV,
		"projector":   product.CategoryTV,
		"camera":      product.CategoryCameras,
		"blender":     product.CategoryKitchen,
		"mixer":       product.CategoryKitchen,
		"kettle":      product.CategoryKitchen,
		"toaster":     product.CategoryKitchen,
		"cookware":    product.CategoryKitchen,
		"vacuum":      product.CategoryAppliances,
		"shoes":       product.CategoryShoes,
		"sneakers":    product.CategoryShoes,
		"sandals":     product.CategoryShoes,
		"tshirt":      product.CategoryClothing,
		"jeans":       product.CategoryClothing,
		"jacket":      product.CategoryClothing,
		"toys":        product.CategoryToys,
		"toy":         product.CategoryToys,
		"puzzle":      product.CategoryToys,
		"book":        product.CategoryBooks,
		"books":       product.CategoryBooks,
		"novel":       product.CategoryBooks,
		"dumbbells":   product.CategoryFitness,
		"yoga":        product.CategoryFitness,
		"tent":        product.CategoryOutdoor,
		"backpack":    product.CategoryOutdoor,
		"shampoo":     product.CategoryPersonalCare,
		"perfume":     product.CategoryPersonalCare,
		"moisturizer": product.CategoryPersonalCare,
	}
}
