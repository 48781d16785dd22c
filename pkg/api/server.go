// Package api exposes binary COPY stream inspection over REST: clients POST
// a stream, the service decodes it structurally and stores the report for
// later retrieval.
package api

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter builds the route tree for an API server. Exposed separately
// from StartServer so tests can drive the full middleware stack in-process.
func NewRouter(server *Server) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(server.config.APIKey, server.metrics))

		r.Get("/health", server.metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Post("/inspect", server.metrics.InstrumentHandler("POST", "/api/v1/inspect", server.handleInspect))
		r.Get("/reports", server.metrics.InstrumentHandler("GET", "/api/v1/reports", server.handleListReports))
		r.Get("/reports/{id}", server.metrics.InstrumentHandler("GET", "/api/v1/reports/{id}", server.handleGetReport))
		r.Delete("/reports/{id}", server.metrics.InstrumentHandler("DELETE", "/api/v1/reports/{id}", server.handleDeleteReport))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured and blocks
// until it fails.
func StartServer(reports ReportStorer, config ServerConfig) error {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("component", "api").Logger()

	metrics := NewMetrics(prometheus.DefaultRegisterer)
	server := NewServer(reports, config, metrics, log)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.Info().
		Str("addr", addr).
		Int("max_field_bytes", config.MaxFieldBytes).
		Msg("starting pgbcp inspection API")

	return http.ListenAndServe(addr, NewRouter(server))
}
