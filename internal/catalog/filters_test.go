package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		min     float64
		max     float64
		ok      bool
	}{
		{"simple", "10000-20000", 10000, 20000, true},
		{"spaces", " 5000 - 15000 ", 5000, 15000, true},
		{"decimals", "9999.5-10000.5", 9999.5, 10000.5, true},
		{"empty", "", 0, 0, false},
		{"no separator", "10000", 0, 0, false},
		{"non numeric", "cheap-expensive", 0, 0, false},
		{"inverted", "20000-10000", 0, 0, false},
		{"negative", "-5--1", 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			min, max, ok := ParsePriceRange(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.min, min)
				assert.Equal(t, tc.max, max)
			}
		})
	}
}

func TestApplyPriceRangeIgnoresMalformed(t *testing.T) {
	var filters CarFilters
	filters.ApplyPriceRange("not-a-range-at-all")
	assert.Nil(t, filters.PriceMin)
	assert.Nil(t, filters.PriceMax)

	filters.ApplyPriceRange("10000-50000")
	if assert.NotNil(t, filters.PriceMin) {
		assert.Equal(t, 10000.0, *filters.PriceMin)
	}
	if assert.NotNil(t, filters.PriceMax) {
		assert.Equal(t, 50000.0, *filters.PriceMax)
	}
}
