package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-prospecting/internal/infra/http/middleware"
)

type RouterDeps struct {
	Campaign       *CampaignHandler
	Health         *HealthHandler
	RateLimiter    *RateLimiter
	AllowedOrigins []string

	// TrustProxyHeaders liga o RealIP; só faz sentido atrás de um proxy confiável
	TrustProxyHeaders bool
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if deps.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	if deps.Health != nil {
		r.Get("/health", deps.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/tenants/{tenantID}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.Middleware)
			}
			r.Post("/campaign/start", deps.Campaign.Start)
			r.Post("/campaign/pause", deps.Campaign.Pause)
			r.Post("/campaign/resume", deps.Campaign.Resume)
			r.Post("/campaign/stop", deps.Campaign.Stop)
		})
		r.Get("/campaign/status", deps.Campaign.Status)
		r.Get("/outcomes", deps.Campaign.ListOutcomes)
	})

	return r
}
