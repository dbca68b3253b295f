package web

import (
	"github.com/go-chi/chi/v5"

	"emoscan/internal/web/handlers"
)

func (s *Server) setupRoutes(deps Deps) {
	processHandler := handlers.NewProcessHandler(deps.Runner, s.jobManager)
	uploadHandler := handlers.NewUploadHandler(deps.Blobs, s.config.Storage.TempDir)
	identitiesHandler := handlers.NewIdentitiesHandler(deps.Identities, deps.Enroller)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Process (sync or async video runs)
		r.Post("/process", processHandler.Start)
		r.Get("/process/{jobId}", processHandler.Status)
		r.Get("/process/{jobId}/events", processHandler.Events)
		r.Delete("/process/{jobId}", processHandler.Cancel)

		// Upload
		r.Post("/upload", uploadHandler.Upload)

		// Identity registry
		r.Get("/identities", identitiesHandler.List)
		r.Post("/identities/enroll", identitiesHandler.Enroll)
		r.Delete("/identities/{label}", identitiesHandler.Remove)
	})
}
