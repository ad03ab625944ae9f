package analytics

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// DashboardSummary is the composite payload behind the admin dashboard.
type DashboardSummary struct {
	Cars        CarTotals       `json:"cars"`
	Accessories AccessoryTotals `json:"accessories"`

	TotalCars               int     `json:"total_cars"`
	ActiveCars              int     `json:"active_cars"`
	TotalAdmins             int     `json:"total_admins"`
	ActiveAdmins            int     `json:"active_admins"`
	AccessoryInventoryValue float64 `json:"accessory_inventory_value"`

	TopBrand             string       `json:"top_brand"`
	TopBrandSalesPercent int          `json:"top_brand_sales_percent"`
	SalesByBrand         []BrandSales `json:"sales_by_brand"`
}

// GetDashboardSummary composes the headline metrics, catalog counts and the
// brand leaderboard. TopBrandSalesPercent is zero when nothing has been sold.
func (s *Service) GetDashboardSummary(ctx context.Context) (DashboardSummary, error) {
	return cached(ctx, s, keyDashboard(), func(ctx context.Context) (DashboardSummary, error) {
		var (
			summary DashboardSummary
			counts  CountsRow
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			totals, err := s.CarTotalsSummary(gctx)
			if err == nil {
				summary.Cars = totals
			}
			return err
		})
		g.Go(func() error {
			totals, err := s.AccessoryTotalsSummary(gctx)
			if err == nil {
				summary.Accessories = totals
			}
			return err
		})
		g.Go(func() error {
			brands, err := s.SalesByBrand(gctx)
			if err == nil {
				summary.SalesByBrand = brands
			}
			return err
		})
		g.Go(func() error {
			var err error
			counts, err = s.repo.CatalogCounts(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return DashboardSummary{}, err
		}

		summary.TotalCars = counts.TotalCars
		summary.ActiveCars = counts.ActiveCars
		summary.TotalAdmins = counts.TotalAdmins
		summary.ActiveAdmins = counts.ActiveAdmins
		summary.AccessoryInventoryValue = counts.AccessoryInventoryValue

		summary.TopBrand, summary.TopBrandSalesPercent = topBrandShare(summary.SalesByBrand)
		return summary, nil
	})
}

// topBrandShare picks the brand with the highest total sales and computes its
// unit share of all units sold, rounded to the nearest whole percent. Both
// values are zero when the ledger is empty.
func topBrandShare(brands []BrandSales) (string, int) {
	if len(brands) == 0 {
		return "", 0
	}
	top := brands[0]
	var totalUnits int
	for _, brand := range brands {
		totalUnits += brand.UnitsSold
		if brand.TotalSales > top.TotalSales {
			top = brand
		}
	}
	if totalUnits == 0 {
		return top.Brand, 0
	}
	percent := int(math.Round(float64(top.UnitsSold) * 100 / float64(totalUnits)))
	return top.Brand, percent
}
