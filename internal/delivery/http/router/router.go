package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/manifest-service/internal/delivery/http/handler"
	"github.com/user/manifest-service/internal/delivery/http/middleware"
	"github.com/user/manifest-service/internal/monitoring"
)

// New wires the routes. gatherer backs the /metrics endpoint.
func New(h *handler.Handler, m *monitoring.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.HandleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)
			r.Put("/link", h.HandleUpdateLink)
			r.Post("/manifest", h.HandleFetchManifest)
		})
		r.Get("/requests", h.HandleGetHistory)
	})

	return r
}
