// Package app assembles the HTTP surface of the billing API.
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/customer"
	"github.com/devaakutty/Shashi-backend/internal/expense"
	"github.com/devaakutty/Shashi-backend/internal/health"
	"github.com/devaakutty/Shashi-backend/internal/invoice"
	"github.com/devaakutty/Shashi-backend/internal/obs"
	"github.com/devaakutty/Shashi-backend/internal/payment"
	"github.com/devaakutty/Shashi-backend/internal/product"
	"github.com/devaakutty/Shashi-backend/internal/ratelimit"
	"github.com/devaakutty/Shashi-backend/internal/report"
	"github.com/devaakutty/Shashi-backend/internal/security"
)

// Deps carries everything the router mounts. Nil handlers leave their routes
// unmounted, which keeps router tests small.
type Deps struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	RequireAuth    func(http.Handler) http.Handler

	HTTPMetrics *obs.HTTPMetrics
	Tracing     bool
	Metrics     http.Handler
	Headers     security.Headers
	BodyLimit   security.BodyLimit
	WriteLimit  ratelimit.Handler
	Idempotency common.Idem
	Health      health.Handler
	Products    *product.Handler
	Customers   *customer.Handler
	Invoices    *invoice.Handler
	Payments    *payment.Handler
	Expenses    *expense.Handler
	Reports     *report.Handler
}

// NewRouter builds the chi router with the shared middleware chain.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(d.AllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(d.Headers.Middleware)
	r.Use(d.BodyLimit.Middleware)

	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	requireAuth := d.RequireAuth
	if requireAuth == nil {
		requireAuth = denyAll
	}
	// authenticated writes are throttled per operator and guarded by Idempotency-Key
	protected := func(mount func(chi.Router)) func(chi.Router) {
		return func(sub chi.Router) {
			sub.Use(requireAuth)
			sub.Use(d.WriteLimit.Middleware)
			sub.Use(d.Idempotency.Middleware)
			mount(sub)
		}
	}

	r.Route("/api", func(api chi.Router) {
		if d.Products != nil {
			api.Route("/products", func(p chi.Router) {
				d.Products.Routes(p, func(next http.Handler) http.Handler {
					return requireAuth(d.WriteLimit.Middleware(d.Idempotency.Middleware(next)))
				})
			})
		}
		if d.Customers != nil {
			api.Route("/customers", protected(d.Customers.Routes))
		}
		if d.Invoices != nil {
			api.Route("/invoices", protected(d.Invoices.Routes))
		}
		if d.Payments != nil {
			api.Route("/payments", protected(d.Payments.Routes))
		}
		if d.Expenses != nil {
			api.Route("/expenses", protected(d.Expenses.Routes))
		}
		if d.Reports != nil {
			api.Route("/reports", protected(func(rep chi.Router) {
				rep.Get("/daily", d.Reports.Daily)
			}))
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "route not found", nil)
	})
	return r
}

// DefaultMetricsHandler exposes the default Prometheus registry.
func DefaultMetricsHandler() http.Handler {
	return promhttp.Handler()
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "missing or invalid token", nil)
	})
}
