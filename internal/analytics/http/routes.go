package analytichttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/zedcars/zedcars/internal/shared"
)

// MountDashboardRoutes registers the dashboard aggregate endpoints. All of
// them require an authenticated staff role.
func (h *Handler) MountDashboardRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin, shared.RoleManager))
		r.Get("/", h.handleSummary)
		r.Get("/sales-by-brand", h.handleSalesByBrand)
		r.Get("/monthly-trend", h.handleMonthlyTrend)
		r.Get("/accessory-trend", h.handleAccessoryTrend)
		r.Get("/accessory-categories", h.handleAccessoryCategories)
		r.Get("/car-totals", h.handleCarTotals)
		r.Get("/accessory-totals", h.handleAccessoryTotals)
	})
}

// MountReportRoutes registers report downloads. File rendering is heavier
// than the JSON endpoints so the subtree is rate limited per client.
func (h *Handler) MountReportRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin, shared.RoleManager))
		r.Use(limiter)
		r.Get("/dashboard.csv", h.handleCSV)
		r.Get("/dashboard.xlsx", h.handleExcel)
		r.Get("/dashboard.pdf", h.handlePDF)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if claims := shared.ClaimsFromContext(r.Context()); claims != nil && claims.Username != "" {
		return "user:" + claims.Username, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
