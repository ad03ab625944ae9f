// Package export renders aggregation output into CSV, Excel and PDF shapes.
// It has no knowledge of how the numbers were derived.
package export

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zedcars/zedcars/internal/analytics"
)

// DashboardPayload aggregates analytics data destined for file rendering.
type DashboardPayload struct {
	GeneratedAt      time.Time
	Summary          analytics.DashboardSummary
	Monthly          []analytics.MonthlyPoint
	Categories       []analytics.CategorySales
	AccessoryMonthly []analytics.MonthlyPoint
}

var currencyPrinter = message.NewPrinter(language.English)

// formatMoney renders an amount with thousands grouping for report output.
func formatMoney(v float64) string {
	return currencyPrinter.Sprintf("%.2f", v)
}
