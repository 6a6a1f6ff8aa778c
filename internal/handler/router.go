package handler

import (
	"context"
	"net/http"
	"time"

	"salesdesk-be/internal/auth"
	"salesdesk-be/internal/dashboard"
	"salesdesk-be/internal/lead"
	"salesdesk-be/internal/logger"
	"salesdesk-be/internal/metrics"
	"salesdesk-be/internal/middleware"
	"salesdesk-be/internal/order"
	"salesdesk-be/internal/product"
	"salesdesk-be/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 15 * time.Second

type Deps struct {
	Orders    order.Service
	Products  product.Service
	Leads     lead.Service
	Dashboard dashboard.Service

	Sessions     *auth.Manager
	LoginLimiter *middleware.IPLimiter

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	CORSOrigins []string
	// Ping backs /healthz; nil reports healthy.
	Ping func(ctx context.Context) error
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		logger.RequestIDMiddleware,
		logger.LoggingMiddleware,
		chimw.Recoverer,
		d.Metrics.Middleware,
		middleware.CORS(d.CORSOrigins),
	)

	r.Get("/healthz", health(d.Ping))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	a := &authHandler{sessions: d.Sessions}
	oh := &orderHandler{svc: d.Orders}
	ph := &productHandler{svc: d.Products}
	lh := &leadHandler{svc: d.Leads}
	dh := &dashboardHandler{svc: d.Dashboard}

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit(d.LoginLimiter)).Post("/login", a.login)
			r.Post("/logout", a.logout)
			r.Get("/check", a.check)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(d.Sessions))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", oh.list)
				r.Post("/", oh.create)
				r.Get("/{id}", oh.get)
				r.Put("/{id}", oh.update)
				r.Delete("/{id}", oh.delete)
				r.Patch("/{id}/status", oh.setStatus)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", ph.list)
				r.Post("/", ph.create)
				r.Get("/{id}", ph.get)
				r.Put("/{id}", ph.update)
				r.Delete("/{id}", ph.delete)
				r.Post("/{id}/toggle", ph.toggle)
			})

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", lh.list)
				r.Post("/", lh.create)
				r.Get("/messages", lh.messages)
				r.Get("/{id}", lh.get)
				r.Put("/{id}", lh.update)
				r.Delete("/{id}", lh.delete)
				r.Get("/{id}/message", lh.message)
			})

			r.Get("/dashboard", dh.stats)
		})
	})

	return r
}

func loginLimit(l *middleware.IPLimiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Middleware
}

func health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
