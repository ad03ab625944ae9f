package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary    = "Summary"
	sheetBrands     = "Sales By Brand"
	sheetMonthly    = "Monthly Trend"
	sheetCategories = "Accessory Categories"
)

// WriteWorkbook renders the dashboard payload as an Excel workbook.
func WriteWorkbook(w io.Writer, payload DashboardPayload) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeSummarySheet(f, payload); err != nil {
		return err
	}
	if err := writeBrandSheet(f, payload); err != nil {
		return err
	}
	if err := writeMonthlySheet(f, payload); err != nil {
		return err
	}
	if err := writeCategorySheet(f, payload); err != nil {
		return err
	}

	// Drop the default sheet created by NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	index, err := f.GetSheetIndex(sheetSummary)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, payload DashboardPayload) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Generated At", payload.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total Car Sales", formatMoney(payload.Summary.Cars.TotalSales)},
		{"Car Units Sold", payload.Summary.Cars.UnitsSold},
		{"Average Car Sale", formatMoney(payload.Summary.Cars.AverageSale)},
		{"Total Accessory Sales", formatMoney(payload.Summary.Accessories.TotalSales)},
		{"Average Accessory Sale", formatMoney(payload.Summary.Accessories.AverageSale)},
		{"Accessory Items Sold", payload.Summary.Accessories.ItemCount},
		{"Active Cars", payload.Summary.ActiveCars},
		{"Total Cars", payload.Summary.TotalCars},
		{"Accessory Inventory Value", formatMoney(payload.Summary.AccessoryInventoryValue)},
		{"Top Brand", payload.Summary.TopBrand},
		{"Top Brand Sales Percent", payload.Summary.TopBrandSalesPercent},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeBrandSheet(f *excelize.File, payload DashboardPayload) error {
	if _, err := f.NewSheet(sheetBrands); err != nil {
		return err
	}
	header := []interface{}{"Brand", "Units Sold", "Total Sales", "Stock Available"}
	if err := f.SetSheetRow(sheetBrands, "A1", &header); err != nil {
		return err
	}
	for i, brand := range payload.Summary.SalesByBrand {
		row := []interface{}{brand.Brand, brand.UnitsSold, brand.TotalSales, brand.StockAvailable}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetBrands, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthlySheet(f *excelize.File, payload DashboardPayload) error {
	if _, err := f.NewSheet(sheetMonthly); err != nil {
		return err
	}
	header := []interface{}{"Period", "Car Units", "Car Revenue", "Accessory Transactions", "Accessory Revenue"}
	if err := f.SetSheetRow(sheetMonthly, "A1", &header); err != nil {
		return err
	}
	accessoryByPeriod := make(map[string][2]float64, len(payload.AccessoryMonthly))
	for _, point := range payload.AccessoryMonthly {
		accessoryByPeriod[point.Period] = [2]float64{float64(point.UnitsSold), point.Revenue}
	}
	for i, point := range payload.Monthly {
		acc := accessoryByPeriod[point.Period]
		row := []interface{}{point.Period, point.UnitsSold, point.Revenue, int(acc[0]), acc[1]}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetMonthly, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCategorySheet(f *excelize.File, payload DashboardPayload) error {
	if _, err := f.NewSheet(sheetCategories); err != nil {
		return err
	}
	header := []interface{}{"Category", "Units Sold", "Total Sales"}
	if err := f.SetSheetRow(sheetCategories, "A1", &header); err != nil {
		return err
	}
	for i, category := range payload.Categories {
		row := []interface{}{category.Category, category.UnitsSold, category.TotalSales}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetCategories, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
