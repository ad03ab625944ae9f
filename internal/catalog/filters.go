package catalog

import (
	"strconv"
	"strings"
)

// CarFilters narrows a car listing. Zero values mean "no filter".
type CarFilters struct {
	Brand      string
	FuelType   string
	PriceMin   *float64
	PriceMax   *float64
	OnlyActive bool
	Page       int
	PerPage    int
}

// AccessoryFilters narrows an accessory listing.
type AccessoryFilters struct {
	Category   string
	OnlyActive bool
}

// ApplyPriceRange parses a "min-max" price range string and sets the bounds.
// Malformed ranges are ignored rather than rejected, a bad filter never fails
// the whole listing.
func (f *CarFilters) ApplyPriceRange(priceRange string) {
	min, max, ok := ParsePriceRange(priceRange)
	if !ok {
		return
	}
	f.PriceMin = &min
	f.PriceMax = &max
}

// ParsePriceRange parses "min-max" into two decimals. The second return is the
// upper bound; ok is false when the string is malformed.
func ParsePriceRange(priceRange string) (min, max float64, ok bool) {
	priceRange = strings.TrimSpace(priceRange)
	if priceRange == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(priceRange, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, errMin := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	max, errMax := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errMin != nil || errMax != nil || min < 0 || max < min {
		return 0, 0, false
	}
	return min, max, true
}
