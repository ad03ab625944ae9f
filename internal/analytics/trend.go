package analytics

import (
	"context"
	"fmt"
	"sort"
)

// MonthlyPoint is one month of sales movement.
type MonthlyPoint struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Period    string  `json:"period"`
	UnitsSold int     `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

// MonthlySalesTrend returns per-month car sale movements for the trailing
// window, ordered ascending by (year, month). The window includes the current
// month; monthsBack defaults to 12.
func (s *Service) MonthlySalesTrend(ctx context.Context, monthsBack int) ([]MonthlyPoint, error) {
	if monthsBack <= 0 {
		monthsBack = defaultTrendMonths
	}
	return cached(ctx, s, keyMonthlyTrend(monthsBack), func(ctx context.Context) ([]MonthlyPoint, error) {
		rows, err := s.repo.MonthlyCarSales(ctx, s.monthWindowStart(monthsBack))
		if err != nil {
			return nil, err
		}
		points := make([]MonthlyPoint, 0, len(rows))
		for _, row := range rows {
			points = append(points, MonthlyPoint{
				Year:      row.Year,
				Month:     row.Month,
				Period:    formatPeriod(row.Year, row.Month),
				UnitsSold: row.Units,
				Revenue:   row.Revenue,
			})
		}
		sortPoints(points)
		return points, nil
	})
}

// AccessoryMonthlyTrend returns per-month accessory-only sale movements.
// UnitsSold counts transactions per month rather than reproducing the
// reference report's sum of row identifiers.
func (s *Service) AccessoryMonthlyTrend(ctx context.Context, monthsBack int) ([]MonthlyPoint, error) {
	if monthsBack <= 0 {
		monthsBack = defaultTrendMonths
	}
	return cached(ctx, s, keyAccessoryTrend(monthsBack), func(ctx context.Context) ([]MonthlyPoint, error) {
		rows, err := s.repo.AccessoryLedgerRows(ctx)
		if err != nil {
			return nil, err
		}
		from := s.monthWindowStart(monthsBack)
		byMonth := make(map[string]*MonthlyPoint)
		for _, row := range rows {
			if row.Date.Before(from) {
				continue
			}
			year, month := row.Date.UTC().Year(), int(row.Date.UTC().Month())
			key := formatPeriod(year, month)
			point, ok := byMonth[key]
			if !ok {
				point = &MonthlyPoint{Year: year, Month: month, Period: key}
				byMonth[key] = point
			}
			point.UnitsSold++
			point.Revenue += row.Total
		}
		points := make([]MonthlyPoint, 0, len(byMonth))
		for _, point := range byMonth {
			points = append(points, *point)
		}
		sortPoints(points)
		return points, nil
	})
}

func sortPoints(points []MonthlyPoint) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
}

func formatPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
