package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/zedcars/zedcars/internal/analytics"
)

// WriteSummaryCSV serialises the headline dashboard metrics to CSV.
func WriteSummaryCSV(w io.Writer, summary analytics.DashboardSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Total Car Sales", formatFloat(summary.Cars.TotalSales)},
		{"Car Units Sold", strconv.Itoa(summary.Cars.UnitsSold)},
		{"Average Car Sale", formatFloat(summary.Cars.AverageSale)},
		{"Total Accessory Sales", formatFloat(summary.Accessories.TotalSales)},
		{"Average Accessory Sale", formatFloat(summary.Accessories.AverageSale)},
		{"Accessory Items Sold", strconv.Itoa(summary.Accessories.ItemCount)},
		{"Active Cars", strconv.Itoa(summary.ActiveCars)},
		{"Total Cars", strconv.Itoa(summary.TotalCars)},
		{"Active Admins", strconv.Itoa(summary.ActiveAdmins)},
		{"Accessory Inventory Value", formatFloat(summary.AccessoryInventoryValue)},
		{"Top Brand", summary.TopBrand},
		{"Top Brand Sales Percent", strconv.Itoa(summary.TopBrandSalesPercent)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteBrandCSV emits the sales-by-brand rollup as CSV.
func WriteBrandCSV(w io.Writer, brands []analytics.BrandSales) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Brand", "Units Sold", "Total Sales", "Stock Available"}); err != nil {
		return err
	}
	for _, brand := range brands {
		if err := writer.Write([]string{
			brand.Brand,
			strconv.Itoa(brand.UnitsSold),
			formatFloat(brand.TotalSales),
			strconv.Itoa(brand.StockAvailable),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMonthlyTrendCSV emits a monthly movement series as CSV.
func WriteMonthlyTrendCSV(w io.Writer, points []analytics.MonthlyPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Period", "Units Sold", "Revenue"}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{
			point.Period,
			strconv.Itoa(point.UnitsSold),
			formatFloat(point.Revenue),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCategoryCSV emits the accessory category rollup as CSV.
func WriteCategoryCSV(w io.Writer, categories []analytics.CategorySales) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Category", "Units Sold", "Total Sales"}); err != nil {
		return err
	}
	for _, category := range categories {
		if err := writer.Write([]string{
			category.Category,
			strconv.Itoa(category.UnitsSold),
			formatFloat(category.TotalSales),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
