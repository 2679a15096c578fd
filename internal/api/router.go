package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Portfolio-Snapshot-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/service"
)

// Services bundles the services the router dispatches to.
type Services struct {
	System   *service.SystemService
	Snapshot *service.SnapshotService
	Quotes   *service.QuoteService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/snapshot", func(r chi.Router) {
			snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshot)
			r.Get("/", snapshotHandler.Snapshot)
			r.Get("/display", snapshotHandler.Display)
		})

		r.Route("/quotes", func(r chi.Router) {
			quoteHandler := handlers.NewQuoteHandler(svc.Quotes)
			r.Get("/", quoteHandler.Quotes)
			r.Post("/refresh", quoteHandler.Refresh)
			r.With(custommiddleware.ValidateSymbolMiddleware).Get("/{symbol}", quoteHandler.Quote)
		})
	})

	return r
}
