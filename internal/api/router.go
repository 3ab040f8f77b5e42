// Package api wires the HTTP routes of the snapshot backend.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Brokerage-Snapshot-Backend/internal/api/middleware"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/config"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/service"
)

// Services bundles what the routes depend on.
type Services struct {
	System    *service.SystemService
	Query     *service.SnapshotQueryService
	Processor *service.SnapshotProcessor
}

// uuidPattern matches the shape of a snapshot id in a route path.
const uuidPattern = `[0-9a-fA-F-]{36}`

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/snapshot", func(r chi.Router) {
			snapshotHandler := handlers.NewSnapshotHandler(services.Query, services.Processor)
			r.Get("/history", snapshotHandler.SnapshotHistory)
			r.Post("/process", snapshotHandler.ProcessSnapshot)
			r.Post("/process/batch", snapshotHandler.ProcessSnapshotBatch)
			r.Post("/consistency", snapshotHandler.RunConsistency)

			// The pattern keeps static paths such as /process out of the id route;
			// the middleware still rejects 36-character values that are not UUIDs.
			r.With(custommiddleware.ValidateUUIDMiddleware).
				Get("/{uuid:"+uuidPattern+"}", snapshotHandler.Snapshot)
		})

		capitalHandler := handlers.NewCapitalHandler()
		r.Post("/capital-deployed", capitalHandler.CapitalDeployed)
	})

	return r
}
