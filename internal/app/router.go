package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/easybiz-pos/easybiz-pos/internal/auth"
	"github.com/easybiz-pos/easybiz-pos/internal/billing"
	"github.com/easybiz-pos/easybiz-pos/internal/catalog"
	"github.com/easybiz-pos/easybiz-pos/internal/customers"
	"github.com/easybiz-pos/easybiz-pos/internal/observability"
	"github.com/easybiz-pos/easybiz-pos/internal/rbac"
	"github.com/easybiz-pos/easybiz-pos/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	AuthHandler      *auth.Handler
	RBACHandler      *rbac.Handler
	BillingHandler   *billing.Handler
	CatalogHandler   *catalog.Handler
	CustomersHandler *customers.Handler
	JobHandler       *jobs.Handler

	Gate rbac.Middleware
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(LoginRateLimiter()).Group(params.AuthHandler.MountRoutes)
		r.With(params.Gate.Authenticate, params.Gate.RequireAny(rbac.FeatureManageUsers)).
			Post("/register", params.AuthHandler.HandleRegister)
	})

	r.Route("/permissions", func(r chi.Router) {
		r.Use(params.Gate.Authenticate)
		r.Use(params.Gate.RequireAny(rbac.FeatureManagePerms))
		params.RBACHandler.MountRoutes(r)
	})

	r.Route("/billing", params.BillingHandler.MountRoutes)
	r.Route("/catalog", params.CatalogHandler.MountRoutes)
	r.Route("/customers", params.CustomersHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
