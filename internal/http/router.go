package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"spotprice/backend-go/internal/config"
	"spotprice/backend-go/internal/handlers"
	"spotprice/backend-go/internal/services"
)

func NewRouter(cfg config.Config, api *handlers.API, limiter services.RateLimiter) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(withRequestID)
	r.Use(withRateLimit(limiter))
	r.Use(withLogging)
	r.Use(withRecovery)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, `{"error":"not_found"}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, `{"error":"method_not_allowed"}`)
	})

	r.Get("/api/v1/health", api.Health)

	r.Post("/price/{commodity}", api.Price)
	r.Post("/api/v1/price/{commodity}", api.Price)
	r.Post("/api/{commodity}", api.Price)

	r.Get("/healthcheck", api.Healthcheck)
	r.Get("/api/healthcheck", api.Healthcheck)

	return r
}

func writeError(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
