package product

// Canonical hierarchical category paths. Catalog normalization and
// query-side filter extraction both resolve onto these, so a category
// filter always prefix-matches the category of an ingested product.
const (
	CategoryElectronics  = "electronics"
	CategoryAudio        = "electronics/audio"
	CategoryHeadphones   = "electronics/audio/headphones"
	CategorySpeakers     = "electronics/audio/speakers"
	CategoryComputers    = "electronics/computers"
	CategoryLaptops      = "electronics/computers/laptops"
	CategoryPhones       = "electronics/phones"
	CategorySmartphones  = "electronics/phones/smartphones"
	CategoryWearables    = "electronics/wearables"
	CategoryCameras      = "electronics/cameras"
	CategoryTV           = "electronics/tv"
	CategoryGaming       = "electronics/gaming"
	CategoryKitchen      = "home/kitchen"
	CategoryAppliances   = "home/appliances"
	CategoryFurniture    = "home/furniture"
	CategoryFitness      = "sports/fitness"
	CategoryOutdoor      = "sports/outdoor"
	CategoryClothing     = "fashion/clothing"
	CategoryShoes        = "fashion/shoes"
	CategoryBooks        = "media/books"
	CategoryToys         = "toys/games"
	CategoryPersonalCare = "beauty/personal-care"
)

// CategoryPaths returns every canonical category path.
func CategoryPaths() []string {
	return []string{
		CategoryElectronics,
		CategoryAudio,
		CategoryHeadphones,
		CategorySpeakers,
		CategoryComputers,
		CategoryLaptops,
		CategoryPhones,
		CategorySmartphones,
		CategoryWearables,
		CategoryCameras,
		CategoryTV,
		CategoryGaming,
		CategoryKitchen,
		CategoryAppliances,
		CategoryFurniture,
		CategoryFitness,
		CategoryOutdoor,
		CategoryClothing,
		CategoryShoes,
		CategoryBooks,
		CategoryToys,
		CategoryPersonalCare,
	}
}
