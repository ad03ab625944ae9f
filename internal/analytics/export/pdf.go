package export

import (
	"html/template"
	"strconv"
	"strings"
)

// BuildDashboardHTML renders the dashboard payload as a standalone HTML
// document suitable for PDF conversion.
func BuildDashboardHTML(payload DashboardPayload) string {
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}h2{font-size:16px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;} .label{text-align:left;}")
	b.WriteString("</style></head><body>")
	b.WriteString("<h1>ZedCars Sales Dashboard</h1>")
	b.WriteString("<p>Generated " + template.HTMLEscapeString(payload.GeneratedAt.Format("2006-01-02 15:04:05")) + "</p>")

	b.WriteString("<section><h2>Summary</h2><table>")
	writeMetricRow(&b, "Total Car Sales", formatMoney(payload.Summary.Cars.TotalSales))
	writeMetricRow(&b, "Car Units Sold", strconv.Itoa(payload.Summary.Cars.UnitsSold))
	writeMetricRow(&b, "Average Car Sale", formatMoney(payload.Summary.Cars.AverageSale))
	writeMetricRow(&b, "Total Accessory Sales", formatMoney(payload.Summary.Accessories.TotalSales))
	writeMetricRow(&b, "Accessory Items Sold", strconv.Itoa(payload.Summary.Accessories.ItemCount))
	writeMetricRow(&b, "Accessory Inventory Value", formatMoney(payload.Summary.AccessoryInventoryValue))
	writeMetricRow(&b, "Top Brand", template.HTMLEscapeString(payload.Summary.TopBrand))
	writeMetricRow(&b, "Top Brand Sales Percent", strconv.Itoa(payload.Summary.TopBrandSalesPercent)+"%")
	b.WriteString("</table></section>")

	b.WriteString("<section><h2>Sales By Brand</h2><table>")
	b.WriteString("<tr><th>Brand</th><th>Units Sold</th><th>Total Sales</th><th>Stock Available</th></tr>")
	for _, brand := range payload.Summary.SalesByBrand {
		b.WriteString("<tr><td class=\"label\">" + template.HTMLEscapeString(brand.Brand) + "</td>")
		b.WriteString("<td>" + strconv.Itoa(brand.UnitsSold) + "</td>")
		b.WriteString("<td>" + formatMoney(brand.TotalSales) + "</td>")
		b.WriteString("<td>" + strconv.Itoa(brand.StockAvailable) + "</td></tr>")
	}
	b.WriteString("</table></section>")

	b.WriteString("<section><h2>Monthly Sales Trend</h2><table>")
	b.WriteString("<tr><th>Period</th><th>Units Sold</th><th>Revenue</th></tr>")
	for _, point := range payload.Monthly {
		b.WriteString("<tr><td class=\"label\">" + point.Period + "</td>")
		b.WriteString("<td>" + strconv.Itoa(point.UnitsSold) + "</td>")
		b.WriteString("<td>" + formatMoney(point.Revenue) + "</td></tr>")
	}
	b.WriteString("</table></section>")

	b.WriteString("<section><h2>Accessory Sales By Category</h2><table>")
	b.WriteString("<tr><th>Category</th><th>Units Sold</th><th>Total Sales</th></tr>")
	for _, category := range payload.Categories {
		b.WriteString("<tr><td class=\"label\">" + template.HTMLEscapeString(category.Category) + "</td>")
		b.WriteString("<td>" + strconv.Itoa(category.UnitsSold) + "</td>")
		b.WriteString("<td>" + formatMoney(category.TotalSales) + "</td></tr>")
	}
	b.WriteString("</table></section>")

	b.WriteString("</body></html>")
	return b.String()
}

func writeMetricRow(b *strings.Builder, label, value string) {
	b.WriteString("<tr><td class=\"label\">" + label + "</td><td>" + value + "</td></tr>")
}
