package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/zedcars/zedcars/internal/activity"
	analytichttp "github.com/zedcars/zedcars/internal/analytics/http"
	"github.com/zedcars/zedcars/internal/auth"
	"github.com/zedcars/zedcars/internal/catalog"
	"github.com/zedcars/zedcars/internal/chatbot"
	"github.com/zedcars/zedcars/internal/observability"
	"github.com/zedcars/zedcars/internal/sales"
	"github.com/zedcars/zedcars/internal/testdrive"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthMiddleware   *auth.Middleware
	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	SalesHandler     *sales.Handler
	TestDriveHandler *testdrive.Handler
	AnalyticsHandler *analytichttp.Handler
	ActivityHandler  *activity.Handler
	ChatbotHandler   *chatbot.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with ZedCars defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	authenticate := func(next http.Handler) http.Handler { return next }
	if params.AuthMiddleware != nil {
		authenticate = params.AuthMiddleware.Authenticate
	}

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:       params.Logger,
		Config:       params.Config,
		Metrics:      params.Metrics,
		Authenticate: authenticate,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/cars", params.CatalogHandler.MountCarRoutes)
		r.Route("/accessories", params.CatalogHandler.MountAccessoryRoutes)
		r.Route("/purchases", params.SalesHandler.MountRoutes)
		r.Route("/testdrives", params.TestDriveHandler.MountRoutes)
		r.Route("/dashboard", params.AnalyticsHandler.MountDashboardRoutes)
		r.Route("/reports", params.AnalyticsHandler.MountReportRoutes)
		r.Route("/activities", params.ActivityHandler.MountRoutes)
		r.Route("/chatbot", params.ChatbotHandler.MountRoutes)
	})

	return r
}
