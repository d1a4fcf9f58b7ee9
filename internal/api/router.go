package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the chi router for the dashboard API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sessions", s.handleSessions)
		r.Get("/journeys", s.handleJourneys)
		r.Get("/stats/overview", s.handleOverview)

		r.Get("/goals", s.handleGoals)
		r.Get("/goals/{id}/progress", s.handleGoalProgress)

		r.Get("/heatmap/activity", s.handleActivityGrid)
		r.Get("/heatmap/hotzone", s.handleHotZone)
		r.Get("/heatmap/clicks.png", s.handleClickDensity)
		r.Get("/heatmap/trails.png", s.handleTrails)

		r.Get("/snapshots", s.handleListSnapshots)
		r.Post("/snapshots", s.handleSaveSnapshot)
		r.Delete("/snapshots", s.handleDeleteSnapshots)
	})

	return r
}
