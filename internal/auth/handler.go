package auth

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

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	middleware    *Middleware
	activity      *activity.Logger
	secureCookies bool
}

// NewHandler constructs the auth handler. secureCookies should be true behind
// TLS so browsers refuse to leak the tokens over plain HTTP.
func NewHandler(logger *slog.Logger, service *Service, middleware *Middleware, activityLog *activity.Logger, secureCookies bool) *Handler {
	return &Handler{
		logger:        logger,
		service:       service,
		middleware:    middleware,
		activity:      activityLog,
		secureCookies: secureCookies,
	}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireRole(shared.RoleSuperAdmin, shared.RoleAdmin, shared.RoleManager, shared.RoleCustomer))
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireRole(shared.RoleSuperAdmin))
		r.Get("/admins", h.ListAdmins)
		r.Delete("/admins/{id}", h.DeactivateAdmin)
	})
}

// Register handles POST /auth/register. Self-service registration always
// creates a Customer; staff accounts require a SuperAdmin caller.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	claims := shared.ClaimsFromContext(r.Context())
	if req.Role != "" && req.Role != shared.RoleCustomer {
		if claims == nil || claims.Role != shared.RoleSuperAdmin {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "staff accounts require a SuperAdmin caller")
			return
		}
	}

	admin, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logger.Warn("register account", slog.Any("error", err))
		h.record(r, req.Username, activity.TypeRegistration, "registration failed", activity.StatusFailed)
		httpx.RespondError(w, err)
		return
	}
	h.record(r, admin.Username, activity.TypeRegistration,
		fmt.Sprintf("registered account with role %s", admin.Role), activity.StatusSuccess)
	httpx.JSON(w, http.StatusCreated, admin)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON payload")
		return
	}
	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.logger.Warn("login", slog.String("username", req.Username), slog.Any("error", err))
		h.record(r, req.Username, activity.TypeLogin, "login failed", activity.StatusFailed)
		httpx.RespondError(w, err)
		return
	}
	h.setTokenCookies(w, resp.Tokens)
	h.record(r, resp.Admin.Username, activity.TypeLogin, "logged in", activity.StatusSuccess)
	httpx.JSON(w, http.StatusOK, resp)
}

// Refresh handles POST /auth/refresh. The opaque token may arrive in the body
// or as the refresh cookie.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = httpx.DecodeJSON(r, &req)
	if req.RefreshToken == "" {
		if cookie, err := r.Cookie(RefreshCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Warn("refresh", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.setTokenCookies(w, resp.Tokens)
	httpx.JSON(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())
	if err := h.service.Logout(r.Context(), claims.AdminID); err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.clearTokenCookies(w)
	h.record(r, claims.Username, activity.TypeLogout, "logged out", activity.StatusSuccess)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())
	admin, err := h.service.GetAdmin(r.Context(), claims.AdminID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, admin)
}

// ListAdmins handles GET /auth/admins.
func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	admins, pagination, err := h.service.ListAdmins(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list admins", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if admins == nil {
		admins = []Admin{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"admins":     admins,
		"pagination": pagination,
	})
}

// DeactivateAdmin handles DELETE /auth/admins/{id}.
func (h *Handler) DeactivateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be an integer")
		return
	}
	if err := h.service.DeactivateAdmin(r.Context(), id); err != nil {
		h.logger.Warn("deactivate admin", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setTokenCookies(w http.ResponseWriter, pair TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/api/v1/auth",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearTokenCookies(w http.ResponseWriter) {
	expired := time.Unix(0, 0)
	http.SetCookie(w, &http.Cookie{Name: AccessCookie, Value: "", Path: "/", Expires: expired, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: "", Path: "/api/v1/auth", Expires: expired, HttpOnly: true})
}

func (h *Handler) record(r *http.Request, username, kind, description, status string) {
	h.activity.Record(r.Context(), activity.Entry{
		Username:    username,
		Type:        kind,
		Description: description,
		Status:      status,
	})
}
