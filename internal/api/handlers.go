package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pagepulse/pagepulse/internal/event"
	"github.com/pagepulse/pagepulse/internal/goal"
	"github.com/pagepulse/pagepulse/internal/heatmap"
	"github.com/pagepulse/pagepulse/internal/journey"
	"github.com/pagepulse/pagepulse/internal/snapshot"
	"github.com/pagepulse/pagepulse/internal/stats"
)

// defaultWindow is the lookback used when the request carries no range.
const defaultWindow = 30 * 24 * time.Hour

func (s *Server) snapshotFor(r *http.Request) ([]*event.RawEvent, error) {
	now := time.Now()
	from := now.Add(-defaultWindow)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}

	return s.events.FetchEvents(r.Context(), from, to)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, s.sessions.Build(events))
}

func (s *Server) handleJourneys(w http.ResponseWriter, r *http.Request) {
	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, journey.Build(events))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats.Compute(events))
}

type goalWithProgress struct {
	goal.Goal
	Progress goal.Progress `json:"progress"`
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.ListGoals(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list goals")
		writeError(w, http.StatusBadGateway, "goal store unavailable")
		return
	}

	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}

	out := make([]goalWithProgress, 0, len(goals))
	for i := range goals {
		out = append(out, goalWithProgress{
			Goal:     goals[i],
			Progress: goal.Evaluate(&goals[i], events),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	g, err := s.goals.GetGoal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, goal.Evaluate(g, events))
}

func (s *Server) handleActivityGrid(w http.ResponseWriter, r *http.Request) {
	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}

	var grid heatmap.ActivityGrid
	if r.URL.Query().Get("metric") == "sessions" {
		grid = heatmap.SessionGrid(events)
	} else {
		grid = heatmap.EventGrid(events)
	}
	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) handleHotZone(w http.ResponseWriter, r *http.Request) {
	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}

	points := heatmap.ClickPoints(events, pointFilter(r))
	zone, counts := heatmap.HotZone(points, heatmap.EstimateDocHeight(points))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"zone":   zone,
		"counts": counts,
		"clicks": len(points),
	})
}

func pointFilter(r *http.Request) heatmap.Filter {
	return heatmap.Filter{
		Page:   r.URL.Query().Get("page"),
		Device: r.URL.Query().Get("device"),
	}
}

func (s *Server) renderOptions(r *http.Request) heatmap.RenderOptions {
	opts := heatmap.RenderOptions{
		CanvasWidth:  s.heatmap.CanvasWidth,
		CanvasHeight: s.heatmap.CanvasHeight,
		Radius:       s.heatmap.Radius,
		Intensity:    s.heatmap.Intensity,
	}
	if v := r.URL.Query().Get("scroll"); v != "" {
		if offset, err := strconv.ParseFloat(v, 64); err == nil {
			opts.ScrollOffset = offset
		}
	}
	return opts
}

func (s *Server) handleClickDensity(w http.ResponseWriter, r *http.Request) {
	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}

	points := heatmap.ClickPoints(events, pointFilter(r))
	buf := heatmap.Remap(heatmap.RenderDensity(points, s.renderOptions(r)))

	overview := stats.Compute(events)
	png, err := heatmap.ExportPNG(buf, heatmap.ExportMeta{
		ModeLabel:   "click",
		CapturedAt:  time.Now(),
		Path:        r.URL.Query().Get("page"),
		TotalClicks: len(points),
		AvgScroll:   overview.AvgScrollDepth,
		Visitors:    overview.Visitors,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to export heatmap")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleTrails(w http.ResponseWriter, r *http.Request) {
	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}

	trails := heatmap.MoveTrails(events, pointFilter(r))
	buf := heatmap.RenderTrails(trails, s.renderOptions(r))

	overview := stats.Compute(events)
	png, err := heatmap.ExportPNG(buf, heatmap.ExportMeta{
		ModeLabel:   "movement",
		CapturedAt:  time.Now(),
		Path:        r.URL.Query().Get("page"),
		TotalClicks: overview.CTAClicks,
		AvgScroll:   overview.AvgScrollDepth,
		Visitors:    overview.Visitors,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to export trails")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.snapshots.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list snapshots")
		writeError(w, http.StatusBadGateway, "snapshot store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

type saveSnapshotRequest struct {
	URL    string `json:"url"`
	Mode   string `json:"mode"`
	Device string `json:"device"`
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req saveSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	events, err := s.snapshotFor(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch events")
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}

	filter := heatmap.Filter{Page: req.URL, Device: req.Device}
	points := heatmap.ClickPoints(events, filter)
	buf := heatmap.Remap(heatmap.RenderDensity(points, heatmap.RenderOptions{
		CanvasWidth:  s.heatmap.CanvasWidth,
		CanvasHeight: s.heatmap.CanvasHeight,
		Radius:       s.heatmap.Radius,
		Intensity:    s.heatmap.Intensity,
	}))

	overview := stats.Compute(events)
	now := time.Now()

	thumbnail, err := heatmap.ExportPNG(buf, heatmap.ExportMeta{
		ModeLabel:   req.Mode,
		CapturedAt:  now,
		Path:        req.URL,
		TotalClicks: len(points),
		AvgScroll:   overview.AvgScrollDepth,
		Visitors:    overview.Visitors,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to render snapshot")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	snap := snapshot.Snapshot{
		ID:          uuid.New().String(),
		URL:         req.URL,
		Mode:        req.Mode,
		Device:      req.Device,
		TotalClicks: len(points),
		AvgScroll:   overview.AvgScrollDepth,
		Visitors:    overview.Visitors,
		CapturedAt:  now,
		Thumbnail:   thumbnail,
	}
	if err := s.snapshots.Save(r.Context(), snap); err != nil {
		log.Error().Err(err).Msg("Failed to save snapshot")
		writeError(w, http.StatusBadGateway, "snapshot store unavailable")
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleDeleteSnapshots(w http.ResponseWriter, r *http.Request) {
	if err := s.snapshots.DeleteAll(r.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to delete snapshots")
		writeError(w, http.StatusBadGateway, "snapshot store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
