package testdrive

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zedcars/zedcars/internal/activity"
	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// Guard restricts a route subtree to the given roles.
type Guard interface {
	RequireRole(roles ...string) func(http.Handler) http.Handler
}

// Handler serves the test-drive HTTP surface.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	activity *activity.Logger
	guard    Guard
}

// NewHandler constructs the test-drive handler.
func NewHandler(logger *slog.Logger, service *Service, activityLog *activity.Logger, guard Guard) *Handler {
	return &Handler{logger: logger, service: service, activity: activityLog, guard: guard}
}

// MountRoutes registers test-drive routes. Booking and the availability probe
// are public, listing and lifecycle updates are staff only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Book)
	r.Get("/availability", h.CheckAvailability)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin, shared.RoleManager))
		r.Get("/", h.ListBookings)
		r.Get("/{id}", h.GetBooking)
		r.Put("/{id}/status", h.UpdateStatus)
	})
}

// Book handles POST /testdrives.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	booking, err := h.service.Book(r.Context(), req)
	if err != nil {
		h.logger.Warn("book test drive", slog.Any("error", err))
		h.recordActivity(r, req.CustomerName, fmt.Sprintf("test drive booking for car %d failed", req.CarID), activity.StatusFailed)
		httpx.RespondError(w, err)
		return
	}
	h.recordActivity(r, req.CustomerName,
		fmt.Sprintf("booked test drive for car %d at %s %s", booking.CarID, req.BookingDate, booking.TimeSlot),
		activity.StatusSuccess)
	httpx.JSON(w, http.StatusCreated, booking)
}

// CheckAvailability handles GET /testdrives/availability?date=&slot=&car_id=.
// With car_id the check is scoped to one car, otherwise it is dealership-wide.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := time.ParseInLocation(dateLayout, q.Get("date"), time.UTC)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "date must be YYYY-MM-DD")
		return
	}
	slot := q.Get("slot")
	if slot == "" {
		httpx.Problem(w, http.StatusBadRequest, "Missing Slot", "slot is required")
		return
	}

	var available bool
	if raw := q.Get("car_id"); raw != "" {
		carID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || carID <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Car", "car_id must be a positive integer")
			return
		}
		available, err = h.service.IsSlotAvailableForCar(r.Context(), carID, date, slot)
		if err != nil {
			h.logger.Error("check slot for car", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	} else {
		available, err = h.service.IsSlotAvailable(r.Context(), date, slot)
		if err != nil {
			h.logger.Error("check slot", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"available": available})
}

// ListBookings handles GET /testdrives.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	bookings, pagination, err := h.service.ListBookings(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list bookings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	httpx.JSON(w, http.StatusOK, BookingPage{
		Bookings:   bookings,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		Total:      pagination.Total,
		TotalPages: pagination.TotalPages,
	})
}

// GetBooking handles GET /testdrives/{id}.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be an integer")
		return
	}
	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, booking)
}

// UpdateStatus handles PUT /testdrives/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be an integer")
		return
	}
	var req StatusUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	booking, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logger.Warn("update booking status", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, booking)
}

func (h *Handler) recordActivity(r *http.Request, fallback, description, status string) {
	username := fallback
	if claims := shared.ClaimsFromContext(r.Context()); claims != nil {
		username = claims.Username
	}
	h.activity.Record(r.Context(), activity.Entry{
		Username:    username,
		Type:        activity.TypeTestDriveBooking,
		Description: description,
		Status:      status,
	})
}
