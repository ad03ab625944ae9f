// Package analytichttp exposes the dashboard aggregates and report downloads
// over HTTP.
package analytichttp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zedcars/zedcars/internal/activity"
	"github.com/zedcars/zedcars/internal/analytics"
	"github.com/zedcars/zedcars/internal/analytics/export"
	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

const renderTimeout = 15 * time.Second

// AnalyticsService defines the aggregate contract used by the handler.
type AnalyticsService interface {
	GetDashboardSummary(ctx context.Context) (analytics.DashboardSummary, error)
	SalesByBrand(ctx context.Context) ([]analytics.BrandSales, error)
	MonthlySalesTrend(ctx context.Context, monthsBack int) ([]analytics.MonthlyPoint, error)
	AccessoryMonthlyTrend(ctx context.Context, monthsBack int) ([]analytics.MonthlyPoint, error)
	AccessorySalesByCategory(ctx context.Context) ([]analytics.CategorySales, error)
	CarTotalsSummary(ctx context.Context) (analytics.CarTotals, error)
	AccessoryTotalsSummary(ctx context.Context) (analytics.AccessoryTotals, error)
}

// PDFRenderer converts a rendered HTML document into PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Guard restricts a route subtree to the given roles.
type Guard interface {
	RequireRole(roles ...string) func(http.Handler) http.Handler
}

// Handler coordinates HTTP requests for the sales dashboard.
type Handler struct {
	logger   *slog.Logger
	service  AnalyticsService
	pdf      PDFRenderer
	activity *activity.Logger
	guard    Guard
	bufPool  sync.Pool
	now      func() time.Time
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service AnalyticsService, pdf PDFRenderer, activityLog *activity.Logger, guard Guard) *Handler {
	h := &Handler{
		logger:   logger,
		service:  service,
		pdf:      pdf,
		activity: activityLog,
		guard:    guard,
		now:      time.Now,
	}
	h.bufPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetDashboardSummary(r.Context())
	if err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleSalesByBrand(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.SalesByBrand(r.Context())
	if err != nil {
		h.logger.Error("sales by brand", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if brands == nil {
		brands = []analytics.BrandSales{}
	}
	httpx.JSON(w, http.StatusOK, brands)
}

func (h *Handler) handleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.MonthlySalesTrend(r.Context(), monthsParam(r))
	if err != nil {
		h.logger.Error("monthly trend", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if points == nil {
		points = []analytics.MonthlyPoint{}
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *Handler) handleAccessoryTrend(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.AccessoryMonthlyTrend(r.Context(), monthsParam(r))
	if err != nil {
		h.logger.Error("accessory trend", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if points == nil {
		points = []analytics.MonthlyPoint{}
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *Handler) handleAccessoryCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.AccessorySalesByCategory(r.Context())
	if err != nil {
		h.logger.Error("accessory categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if categories == nil {
		categories = []analytics.CategorySales{}
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *Handler) handleCarTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.CarTotalsSummary(r.Context())
	if err != nil {
		h.logger.Error("car totals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
}

func (h *Handler) handleAccessoryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.AccessoryTotalsSummary(r.Context())
	if err != nil {
		h.logger.Error("accessory totals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	payload, err := h.loadPayload(ctx)
	if err != nil {
		h.logger.Error("load report payload", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.bufPool.Put(buf)
	}()

	sections := []func() error{
		func() error { return export.WriteSummaryCSV(buf, payload.Summary) },
		func() error { return export.WriteBrandCSV(buf, payload.Summary.SalesByBrand) },
		func() error { return export.WriteMonthlyTrendCSV(buf, payload.Monthly) },
		func() error { return export.WriteCategoryCSV(buf, payload.Categories) },
	}
	for i, write := range sections {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := write(); err != nil {
			h.logger.Error("write report csv", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}

	h.recordExport(r, "csv")
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(h.reportFilename("csv")))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("stream csv", slog.Any("error", err))
	}
}

func (h *Handler) handleExcel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	payload, err := h.loadPayload(ctx)
	if err != nil {
		h.logger.Error("load report payload", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.bufPool.Put(buf)
	}()

	if err := export.WriteWorkbook(buf, payload); err != nil {
		h.logger.Error("write workbook", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.recordExport(r, "xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(h.reportFilename("xlsx")))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("stream workbook", slog.Any("error", err))
	}
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "PDF Unavailable", "pdf rendering is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	payload, err := h.loadPayload(ctx)
	if err != nil {
		h.logger.Error("load report payload", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	pdfBytes, err := h.pdf.RenderHTML(ctx, export.BuildDashboardHTML(payload))
	if err != nil {
		h.logger.Error("render pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "pdf rendering failed")
		return
	}

	h.recordExport(r, "pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(h.reportFilename("pdf")))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.Warn("stream pdf", slog.Any("error", err))
	}
}

// loadPayload fans out the aggregate loads that feed a rendered report.
func (h *Handler) loadPayload(ctx context.Context) (export.DashboardPayload, error) {
	payload := export.DashboardPayload{GeneratedAt: h.now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := h.service.GetDashboardSummary(ctx)
		if err != nil {
			return err
		}
		payload.Summary = summary
		return nil
	})
	g.Go(func() error {
		points, err := h.service.MonthlySalesTrend(ctx, 0)
		if err != nil {
			return err
		}
		payload.Monthly = points
		return nil
	})
	g.Go(func() error {
		categories, err := h.service.AccessorySalesByCategory(ctx)
		if err != nil {
			return err
		}
		payload.Categories = categories
		return nil
	})
	g.Go(func() error {
		points, err := h.service.AccessoryMonthlyTrend(ctx, 0)
		if err != nil {
			return err
		}
		payload.AccessoryMonthly = points
		return nil
	})
	if err := g.Wait(); err != nil {
		return export.DashboardPayload{}, err
	}
	return payload, nil
}

func (h *Handler) reportFilename(ext string) string {
	return fmt.Sprintf("zedcars-dashboard-%s.%s", h.now().UTC().Format("20060102-150405"), ext)
}

func (h *Handler) recordExport(r *http.Request, format string) {
	username := "unknown"
	if claims := shared.ClaimsFromContext(r.Context()); claims != nil {
		username = claims.Username
	}
	h.activity.Record(r.Context(), activity.Entry{
		Username:    username,
		Type:        activity.TypeReportExport,
		Description: fmt.Sprintf("Exported dashboard report (%s)", format),
		Status:      activity.StatusSuccess,
	})
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

func monthsParam(r *http.Request) int {
	months, err := strconv.Atoi(r.URL.Query().Get("months"))
	if err != nil || months < 0 {
		return 0
	}
	return months
}
