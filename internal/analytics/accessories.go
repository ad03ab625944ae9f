package analytics

import (
	"context"
	"sort"

	"github.com/zedcars/zedcars/internal/shared"
)

// CategorySales is one row of the accessory category rollup.
type CategorySales struct {
	Category   string  `json:"category"`
	UnitsSold  int     `json:"units_sold"`
	TotalSales float64 `json:"total_sales"`
}

// AccessoryTotals summarises the accessory-only ledger.
type AccessoryTotals struct {
	TotalSales  float64 `json:"total_sales"`
	AverageSale float64 `json:"average_sale"`
	ItemCount   int     `json:"item_count"`
}

// AccessorySalesByCategory parses every accessory-only transaction's name
// list, joins each name against the catalog, and groups line items by
// category. Names that no longer resolve (deleted or renamed accessories) are
// silently dropped. TotalSales uses the catalog price at report time, not the
// price paid.
func (s *Service) AccessorySalesByCategory(ctx context.Context) ([]CategorySales, error) {
	return cached(ctx, s, keyCategorySales(), func(ctx context.Context) ([]CategorySales, error) {
		rows, err := s.repo.AccessoryLedgerRows(ctx)
		if err != nil {
			return nil, err
		}
		refs, err := s.repo.AccessoryRefs(ctx)
		if err != nil {
			return nil, err
		}
		byName := make(map[string]AccessoryRef, len(refs))
		for _, ref := range refs {
			byName[ref.Name] = ref
		}

		byCategory := make(map[string]*CategorySales)
		for _, row := range rows {
			for _, name := range shared.SplitNames(row.Names) {
				ref, ok := byName[name]
				if !ok {
					continue
				}
				entry, ok := byCategory[ref.Category]
				if !ok {
					entry = &CategorySales{Category: ref.Category}
					byCategory[ref.Category] = entry
				}
				entry.UnitsSold++
				entry.TotalSales += ref.Price
			}
		}

		result := make([]CategorySales, 0, len(byCategory))
		for _, entry := range byCategory {
			result = append(result, *entry)
		}
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].TotalSales > result[j].TotalSales
		})
		return result, nil
	})
}

// AccessoryTotalsSummary computes totals over the accessory-only ledger.
// ItemCount is the number of accessory line items across all transactions,
// not the number of transactions. The average is zero for an empty ledger.
func (s *Service) AccessoryTotalsSummary(ctx context.Context) (AccessoryTotals, error) {
	return cached(ctx, s, keyAccessoryTotals(), func(ctx context.Context) (AccessoryTotals, error) {
		rows, err := s.repo.AccessoryLedgerRows(ctx)
		if err != nil {
			return AccessoryTotals{}, err
		}
		var totals AccessoryTotals
		for _, row := range rows {
			totals.TotalSales += row.Total
			totals.ItemCount += len(shared.SplitNames(row.Names))
		}
		if len(rows) > 0 {
			totals.AverageSale = totals.TotalSales / float64(len(rows))
		}
		return totals, nil
	})
}
