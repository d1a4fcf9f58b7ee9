// Package api exposes the dashboard's aggregation endpoints. Handlers
// fetch an event snapshot from the store, run the pure aggregators over
// it and serialize the result; no derived entity is ever written back.
package api

import (
	"context"
	"time"

	"github.com/pagepulse/pagepulse/internal/botcheck"
	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/event"
	"github.com/pagepulse/pagepulse/internal/goal"
	"github.com/pagepulse/pagepulse/internal/session"
	"github.com/pagepulse/pagepulse/internal/snapshot"
)

// EventSource yields the immutable event snapshot for a time range.
type EventSource interface {
	FetchEvents(ctx context.Context, from, to time.Time) ([]*event.RawEvent, error)
}

// GoalSource reads externally configured goals.
type GoalSource interface {
	ListGoals(ctx context.Context) ([]goal.Goal, error)
	GetGoal(ctx context.Context, id string) (*goal.Goal, error)
}

// Server wires the aggregation core to its external collaborators.
type Server struct {
	events    EventSource
	goals     GoalSource
	snapshots snapshot.Store
	sessions  *session.Builder
	heatmap   config.HeatmapConfig
}

// NewServer creates the API server.
func NewServer(events EventSource, goals GoalSource, snapshots snapshot.Store, classifier botcheck.Classifier, heatmapCfg config.HeatmapConfig) *Server {
	return &Server{
		events:    events,
		goals:     goals,
		snapshots: snapshots,
		sessions:  session.NewBuilder(classifier),
		heatmap:   heatmapCfg,
	}
}
