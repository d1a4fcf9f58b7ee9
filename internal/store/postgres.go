package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagepulse/pagepulse/internal/goal"
)

// GoalStore reads conversion-goal configurations from Postgres. The
// engine only reads goals; the dashboard's goal editor owns writes.
type GoalStore struct {
	pool *pgxpool.Pool
}

func NewGoalStore(ctx context.Context, dsn string) (*GoalStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &GoalStore{pool: pool}, nil
}

// goalConfig is the persisted JSON shape of a goal's variant config.
type goalConfig struct {
	CTAClick        *goal.CTAClickRule        `json:"cta_click,omitempty"`
	PageDestination *goal.PageDestinationRule `json:"page_destination,omitempty"`
	URLPattern      *goal.URLPatternRule      `json:"url_pattern,omitempty"`
	ScrollDepth     *goal.ScrollDepthRule     `json:"scroll_depth,omitempty"`
	TimeOnPage      *goal.TimeOnPageRule      `json:"time_on_page,omitempty"`
	Sub             []goal.Condition          `json:"sub,omitempty"`
}

// ListGoals returns every configured goal, including disabled ones; the
// presentation layer decides what to show.
func (s *GoalStore) ListGoals(ctx context.Context) ([]goal.Goal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, goal_type, config, target_value, currency_value, enabled
		FROM goals
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []goal.Goal
	for rows.Next() {
		var (
			g         goal.Goal
			goalType  string
			rawConfig []byte
		)
		if err := rows.Scan(&g.ID, &g.Name, &goalType, &rawConfig, &g.TargetValue, &g.CurrencyValue, &g.Enabled); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}

		g.Type = goal.Type(goalType)
		if len(rawConfig) > 0 {
			var cfg goalConfig
			if err := json.Unmarshal(rawConfig, &cfg); err != nil {
				return nil, fmt.Errorf("decode goal %s config: %w", g.ID, err)
			}
			g.Condition = goal.Condition{
				Type:            g.Type,
				CTAClick:        cfg.CTAClick,
				PageDestination: cfg.PageDestination,
				URLPattern:      cfg.URLPattern,
				ScrollDepth:     cfg.ScrollDepth,
				TimeOnPage:      cfg.TimeOnPage,
			}
			g.Sub = cfg.Sub
		}

		goals = append(goals, g)
	}

	return goals, rows.Err()
}

// GetGoal fetches one goal by id.
func (s *GoalStore) GetGoal(ctx context.Context, id string) (*goal.Goal, error) {
	var (
		g         goal.Goal
		goalType  string
		rawConfig []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, goal_type, config, target_value, currency_value, enabled
		FROM goals
		WHERE id = $1
	`, id).Scan(&g.ID, &g.Name, &goalType, &rawConfig, &g.TargetValue, &g.CurrencyValue, &g.Enabled)
	if err != nil {
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}

	g.Type = goal.Type(goalType)
	if len(rawConfig) > 0 {
		var cfg goalConfig
		if err := json.Unmarshal(rawConfig, &cfg); err != nil {
			return nil, fmt.Errorf("decode goal %s config: %w", g.ID, err)
		}
		g.Condition = goal.Condition{
			Type:            g.Type,
			CTAClick:        cfg.CTAClick,
			PageDestination: cfg.PageDestination,
			URLPattern:      cfg.URLPattern,
			ScrollDepth:     cfg.ScrollDepth,
			TimeOnPage:      cfg.TimeOnPage,
		}
		g.Sub = cfg.Sub
	}

	return &g, nil
}

func (s *GoalStore) Close() {
	s.pool.Close()
}
