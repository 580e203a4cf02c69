package product

import "math"

// PriceBand is a discrete price bucket used for fast metadata filtering.
// Every product falls into exactly one band.
type PriceBand struct {
	lo float64
	hi float64 // +Inf for the open-ended top band
}

// The fixed ordered band set: 0-50, 50-100, 100-200, 200-500, 500+.
var bands = []PriceBand{
	{lo: 0, hi: 50},
	{lo: 50, hi: 100},
	{lo: 100, hi: 200},
	{lo: 200, hi: 500},
	{lo: 500, hi: math.Inf(1)},
}

// Bands returns the ordered band set.
func Bands() []PriceBand {
	out := make([]PriceBand, len(bands))
	copy(out, bands)
	return out
}

// BandOf returns the band a price falls into. Boundary prices belong to the
// lower band ($50 is in 0-50), keeping the derivation deterministic.
func BandOf(price float64) PriceBand {
	for _, b := range bands[:len(bands)-1] {
		if price <= b.hi {
			return b
		}
	}
	return bands[len(bands)-1]
}

// Lo returns the inclusive lower bound.
func (b PriceBand) Lo() float64 { return b.lo }

// Hi returns the upper bound (+Inf for the top band).
func (b PriceBand) Hi() float64 { return b.hi }

// Overlaps reports whether the band overlaps the query range [min, max].
// Nil bounds are open. The test is inclusive at boundaries: a $75-$125
// query overlaps both the 50-100 and 100-200 bands.
func (b PriceBand) Overlaps(min, max *float64) bool {
	if min != nil && *min > b.hi {
		return false
	}
	if max != nil && *max < b.lo {
		return false
	}
	return true
}
