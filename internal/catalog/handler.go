package catalog

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

// Handler serves the catalog HTTP surface.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	activity *activity.Logger
	guard    Guard
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *Service, activityLog *activity.Logger, guard Guard) *Handler {
	return &Handler{logger: logger, service: service, activity: activityLog, guard: guard}
}

// MountCarRoutes registers car catalog routes.
func (h *Handler) MountCarRoutes(r chi.Router) {
	r.Get("/", h.ListCars)
	r.Get("/{id}", h.GetCar)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin, shared.RoleManager))
		r.Post("/", h.CreateCar)
		r.Put("/{id}", h.UpdateCar)
		r.Delete("/{id}", h.DeactivateCar)
	})
}

// MountAccessoryRoutes registers accessory catalog routes.
func (h *Handler) MountAccessoryRoutes(r chi.Router) {
	r.Get("/", h.ListAccessories)
	r.Get("/{id}", h.GetAccessory)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin, shared.RoleManager))
		r.Post("/", h.CreateAccessory)
		r.Put("/{id}", h.UpdateAccessory)
		r.Delete("/{id}", h.DeactivateAccessory)
	})
}

// ListCars handles GET /cars with optional brand, fuel_type, price_range and
// paging query parameters.
func (h *Handler) ListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := CarFilters{
		Brand:      q.Get("brand"),
		FuelType:   q.Get("fuel_type"),
		OnlyActive: q.Get("include_inactive") != "true",
	}
	filters.ApplyPriceRange(q.Get("price_range"))
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PerPage, _ = strconv.Atoi(q.Get("page_size"))

	cars, pagination, err := h.service.ListCars(r.Context(), filters)
	if err != nil {
		h.logger.Error("list cars", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if cars == nil {
		cars = []Car{}
	}
	httpx.JSON(w, http.StatusOK, CarPage{
		Cars:       cars,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		Total:      pagination.Total,
		TotalPages: pagination.TotalPages,
	})
}

// GetCar handles GET /cars/{id}.
func (h *Handler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "car id must be numeric")
		return
	}
	car, err := h.service.GetCar(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, car)
}

// CreateCar handles POST /cars.
func (h *Handler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var form CarForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	car, err := h.service.CreateCar(r.Context(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordChange(r, fmt.Sprintf("created car %s %s", car.Brand, car.Model))
	httpx.JSON(w, http.StatusCreated, car)
}

// UpdateCar handles PUT /cars/{id}.
func (h *Handler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "car id must be numeric")
		return
	}
	var form CarForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	car, err := h.service.UpdateCar(r.Context(), id, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordChange(r, fmt.Sprintf("updated car %d", id))
	httpx.JSON(w, http.StatusOK, car)
}

// DeactivateCar handles DELETE /cars/{id} as a soft delete.
func (h *Handler) DeactivateCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "car id must be numeric")
		return
	}
	if err := h.service.DeactivateCar(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordChange(r, fmt.Sprintf("deactivated car %d", id))
	w.WriteHeader(http.StatusNoContent)
}

// ListAccessories handles GET /accessories.
func (h *Handler) ListAccessories(w http.ResponseWriter, r *http.Request) {
	filters := AccessoryFilters{
		Category:   r.URL.Query().Get("category"),
		OnlyActive: r.URL.Query().Get("include_inactive") != "true",
	}
	accessories, err := h.service.ListAccessories(r.Context(), filters)
	if err != nil {
		h.logger.Error("list accessories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if accessories == nil {
		accessories = []Accessory{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accessories": accessories})
}

// GetAccessory handles GET /accessories/{id}.
func (h *Handler) GetAccessory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "accessory id must be numeric")
		return
	}
	accessory, err := h.service.GetAccessory(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, accessory)
}

// CreateAccessory handles POST /accessories.
func (h *Handler) CreateAccessory(w http.ResponseWriter, r *http.Request) {
	var form AccessoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	accessory, err := h.service.CreateAccessory(r.Context(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordChange(r, fmt.Sprintf("created accessory %s", accessory.Name))
	httpx.JSON(w, http.StatusCreated, accessory)
}

// UpdateAccessory handles PUT /accessories/{id}.
func (h *Handler) UpdateAccessory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "accessory id must be numeric")
		return
	}
	var form AccessoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	accessory, err := h.service.UpdateAccessory(r.Context(), id, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordChange(r, fmt.Sprintf("updated accessory %d", id))
	httpx.JSON(w, http.StatusOK, accessory)
}

// DeactivateAccessory handles DELETE /accessories/{id} as a soft delete.
func (h *Handler) DeactivateAccessory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "accessory id must be numeric")
		return
	}
	if err := h.service.DeactivateAccessory(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordChange(r, fmt.Sprintf("deactivated accessory %d", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordChange(r *http.Request, description string) {
	username := "unknown"
	if claims := shared.ClaimsFromContext(r.Context()); claims != nil {
		username = claims.Username
	}
	h.activity.Record(r.Context(), activity.Entry{
		Username:    username,
		Type:        activity.TypeCatalogChange,
		Description: description,
		Status:      activity.StatusSuccess,
	})
}
