package sales

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zedcars/zedcars/internal/activity"
	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// Guard restricts a route subtree to the given roles.
type Guard interface {
	RequireRole(roles ...string) func(http.Handler) http.Handler
}

// Handler serves the purchase ledger HTTP surface.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	activity *activity.Logger
	guard    Guard
}

// NewHandler constructs the ledger handler.
func NewHandler(logger *slog.Logger, service *Service, activityLog *activity.Logger, guard Guard) *Handler {
	return &Handler{logger: logger, service: service, activity: activityLog, guard: guard}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/cars", h.RecordCarPurchase)
	r.Post("/accessories", h.RecordAccessoryPurchase)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin, shared.RoleManager))
		r.Get("/cars", h.ListPurchases)
		r.Get("/cars/{id}", h.GetPurchase)
		r.Get("/accessories", h.ListAccessoryPurchases)
	})
}

// RecordCarPurchase handles POST /purchases/cars.
func (h *Handler) RecordCarPurchase(w http.ResponseWriter, r *http.Request) {
	var req CarPurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	purchase, err := h.service.RecordCarPurchase(r.Context(), req)
	if err != nil {
		h.logger.Warn("record car purchase", slog.Any("error", err))
		h.recordActivity(r, req.BuyerName, fmt.Sprintf("car purchase for car %d failed", req.CarID), activity.StatusFailed)
		httpx.RespondError(w, err)
		return
	}
	h.recordActivity(r, req.BuyerName, fmt.Sprintf("purchased %d unit(s) of car %d", purchase.Quantity, purchase.CarID), activity.StatusSuccess)
	httpx.JSON(w, http.StatusCreated, purchase)
}

// RecordAccessoryPurchase handles POST /purchases/accessories.
func (h *Handler) RecordAccessoryPurchase(w http.ResponseWriter, r *http.Request) {
	var req AccessoryPurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	purchase, err := h.service.RecordAccessoryOnlyPurchase(r.Context(), req)
	if err != nil {
		h.logger.Warn("record accessory purchase", slog.Any("error", err))
		h.recordActivity(r, req.BuyerName, "accessory purchase failed", activity.StatusFailed)
		httpx.RespondError(w, err)
		return
	}
	h.recordActivity(r, req.BuyerName, fmt.Sprintf("purchased accessories: %s", purchase.AccessoryList), activity.StatusSuccess)
	httpx.JSON(w, http.StatusCreated, purchase)
}

// ListPurchases handles GET /purchases/cars.
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	purchases, pagination, err := h.service.ListPurchases(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if purchases == nil {
		purchases = []Purchase{}
	}
	httpx.JSON(w, http.StatusOK, PurchasePage{
		Purchases:  purchases,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		Total:      pagination.Total,
		TotalPages: pagination.TotalPages,
	})
}

// GetPurchase handles GET /purchases/cars/{id}.
func (h *Handler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "purchase id must be numeric")
		return
	}
	purchase, names, err := h.service.GetPurchase(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"purchase":    purchase,
		"accessories": names,
	})
}

// ListAccessoryPurchases handles GET /purchases/accessories.
func (h *Handler) ListAccessoryPurchases(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	purchases, pagination, err := h.service.ListAccessoryPurchases(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list accessory purchases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if purchases == nil {
		purchases = []AccessoryPurchase{}
	}
	httpx.JSON(w, http.StatusOK, AccessoryPurchasePage{
		Purchases:  purchases,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		Total:      pagination.Total,
		TotalPages: pagination.TotalPages,
	})
}

func (h *Handler) recordActivity(r *http.Request, fallback, description, status string) {
	username := fallback
	if claims := shared.ClaimsFromContext(r.Context()); claims != nil {
		username = claims.Username
	}
	h.activity.Record(r.Context(), activity.Entry{
		Username:    username,
		Type:        activity.TypePurchase,
		Description: description,
		Status:      status,
	})
}
