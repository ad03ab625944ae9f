package analytics

import "context"

// CarTotals summarises the car sale ledger.
type CarTotals struct {
	TotalSales  float64 `json:"total_sales"`
	UnitsSold   int     `json:"units_sold"`
	AverageSale float64 `json:"average_sale"`
}

// CarTotalsSummary computes sales totals over the whole car ledger. The
// average is the mean purchase price per transaction and is zero for an empty
// ledger, never NaN.
func (s *Service) CarTotalsSummary(ctx context.Context) (CarTotals, error) {
	return cached(ctx, s, keyCarTotals(), func(ctx context.Context) (CarTotals, error) {
		row, err := s.repo.CarTotals(ctx)
		if err != nil {
			return CarTotals{}, err
		}
		totals := CarTotals{
			TotalSales: row.Revenue,
			UnitsSold:  row.Units,
		}
		if row.Count > 0 {
			totals.AverageSale = row.Revenue / float64(row.Count)
		}
		return totals, nil
	})
}
