package analytics

import (
	"context"
	"sort"
)

// BrandSales is one row of the sales-by-brand rollup.
type BrandSales struct {
	Brand          string  `json:"brand"`
	UnitsSold      int     `json:"units_sold"`
	TotalSales     float64 `json:"total_sales"`
	StockAvailable int     `json:"stock_available"`
}

// SalesByBrand groups the car ledger by the brand of the purchased car,
// ordered descending by total sales. Purchases with no resolvable car are
// excluded. StockAvailable sums car stock over ledger rows, not over the
// catalog; it is a per-purchase echo of stock at report time.
func (s *Service) SalesByBrand(ctx context.Context) ([]BrandSales, error) {
	return cached(ctx, s, keySalesByBrand(), func(ctx context.Context) ([]BrandSales, error) {
		rows, err := s.repo.BrandRows(ctx)
		if err != nil {
			return nil, err
		}
		result := make([]BrandSales, 0, len(rows))
		for _, row := range rows {
			result = append(result, BrandSales{
				Brand:          row.Brand,
				UnitsSold:      row.Units,
				TotalSales:     row.Revenue,
				StockAvailable: row.Stock,
			})
		}
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].TotalSales > result[j].TotalSales
		})
		return result, nil
	})
}
