package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scamshield-ai/scamshield/internal/honeypot"
	"github.com/scamshield-ai/scamshield/internal/http/handlers"
	httpmiddleware "github.com/scamshield-ai/scamshield/internal/http/middleware"
	"github.com/scamshield-ai/scamshield/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	HealthHandler   *handlers.HealthHandler
	HoneypotHandler *honeypot.Handler
	MetricsHandler  http.Handler

	// APIKey protects everything under /api. An empty key rejects all
	// authenticated traffic rather than opening it up.
	APIKey string

	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (liveness, metrics)
	r.Group(func(public chi.Router) {
		if cfg.HealthHandler != nil {
			public.Get("/", cfg.HealthHandler.Check)
			public.Get("/health", cfg.HealthHandler.Check)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Key-protected API
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.APIKey(cfg.APIKey))
		if cfg.HoneypotHandler != nil {
			api.Post("/scam-detection", cfg.HoneypotHandler.DetectScam)
			api.Get("/similar-scams", cfg.HoneypotHandler.SimilarScams)
		}
	})

	return r
}
