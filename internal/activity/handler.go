package activity

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// Guard restricts a route subtree to the given roles.
type Guard interface {
	RequireRole(roles ...string) func(http.Handler) http.Handler
}

// Handler serves the activity trail for the admin dashboard.
type Handler struct {
	logger  *slog.Logger
	records *Logger
	guard   Guard
}

// NewHandler constructs the activity handler.
func NewHandler(logger *slog.Logger, records *Logger, guard Guard) *Handler {
	return &Handler{logger: logger, records: records, guard: guard}
}

// MountRoutes registers activity routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin))
		r.Get("/", h.List)
	})
}

// List handles GET /activities.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	entries, pagination, err := h.records.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list activities", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"activities": entries,
		"pagination": pagination,
	})
}
