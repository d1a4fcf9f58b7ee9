// Package journey converts session event groups into ordered page-step
// sequences with dwell times and conversion detection.
package journey

import (
	"sort"
	"time"

	"github.com/pagepulse/pagepulse/internal/event"
)

// Step is a single page visit within a journey. Steps are time-ordered
// and non-overlapping; the sum of step durations never exceeds the
// session's wall-clock span.
type Step struct {
	Page        string    `json:"page"`
	Action      string    `json:"action"`
	DurationSec float64   `json:"duration_sec"`
	ScrollDepth float64   `json:"scroll_depth"`
	Timestamp   time.Time `json:"timestamp"`
	CTAClicked  string    `json:"cta_clicked,omitempty"`
}

// Journey is the same-page-collapsed step sequence of one session.
type Journey struct {
	SessionID       string    `json:"session_id"`
	StartedAt       time.Time `json:"started_at"`
	Steps           []Step    `json:"steps"`
	Converted       bool      `json:"converted"`
	ConversionValue float64   `json:"conversion_value"`
}

// Build reconstructs one journey per session group, using the same
// grouping as session reconstruction. Output is sorted descending by
// start time; empty input yields an empty slice.
func Build(events []*event.RawEvent) []Journey {
	groups := event.GroupBySession(events)

	journeys := make([]Journey, 0, len(groups))
	for key, group := range groups {
		journeys = append(journeys, buildOne(key, group))
	}

	sort.SliceStable(journeys, func(i, j int) bool {
		return journeys[i].StartedAt.After(journeys[j].StartedAt)
	})
	return journeys
}

func buildOne(key string, group []*event.RawEvent) Journey {
	j := Journey{
		SessionID: key,
		StartedAt: group[0].CreatedAt,
	}

	currentPage := ""
	for i, e := range group {
		if i == 0 || e.PageURL != currentPage {
			currentPage = e.PageURL

			step := Step{
				Page:        event.PagePath(e.PageURL),
				Action:      e.EventType,
				DurationSec: dwellTime(group, i),
				Timestamp:   e.CreatedAt,
				CTAClicked:  e.CTAText,
			}
			if e.ScrollDepth != nil {
				step.ScrollDepth = *e.ScrollDepth
			}
			j.Steps = append(j.Steps, step)
		}
	}

	for _, e := range group {
		if e.IsConversion() {
			j.Converted = true
			j.ConversionValue += e.Revenue()
		}
	}

	return j
}

// dwellTime scans forward from index i for the next event on a
// different page and returns the time delta to it. The last page of a
// session has no such event and dwells for 0.
func dwellTime(group []*event.RawEvent, i int) float64 {
	from := group[i]
	for _, e := range group[i+1:] {
		if e.PageURL != from.PageURL {
			return e.CreatedAt.Sub(from.CreatedAt).Seconds()
		}
	}
	return 0
}
