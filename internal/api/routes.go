package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleListProfiles)
			r.Post("/", s.handleCreateProfile)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProfile)
				r.Delete("/", s.handleDeleteProfile)
				r.Post("/sync", s.handleSyncProfile)
				r.Post("/resume-analysis", s.handleResumeAnalysis)
				r.Get("/report", s.handleReport)
				r.Get("/weaknesses", s.handleWeaknesses)
				r.Get("/openings", s.handleOpenings)
				r.Get("/playstyle", s.handlePlaystyle)
			})
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", s.handleListGames)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGameDetail)
				r.Get("/analysis", s.handleAnalysisProgress)
				r.Post("/analyze", s.handleQueueAnalysis)
			})
		})
	})

	return r
}
