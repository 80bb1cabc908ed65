package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/restaurant-webhook/internal/http/middleware"
	"github.com/wolfman30/restaurant-webhook/internal/webhook"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Webhook        *webhook.Handler
	MetricsHandler http.Handler
	// RateLimiter guards POST /webhook; nil disables limiting.
	RateLimiter *httpmiddleware.RateLimiter
	// Status adds fields to the /health body, e.g. the store backend.
	Status func() map[string]string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", health(cfg.Status))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Webhook != nil {
		r.With(httpmiddleware.RateLimit(cfg.RateLimiter, http.HandlerFunc(cfg.Webhook.Throttled))).
			Post("/webhook", cfg.Webhook.Webhook)
	}
	return r
}

func health(status func() map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]string{}
		if status != nil {
			for k, v := range status() {
				body[k] = v
			}
		}
		body["status"] = "ok"

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	}
}
