// Package session reconstructs visitor sessions from the raw event
// stream. Reconstruction is a pure batch computation over an immutable
// event snapshot; any change to the snapshot requires a full rebuild.
package session

import (
	"sort"
	"time"

	"github.com/pagepulse/pagepulse/internal/botcheck"
	"github.com/pagepulse/pagepulse/internal/event"
)

// bounceMaxElapsed is the raw wall-clock ceiling below which a
// single-page session counts as a bounce.
const bounceMaxElapsed = 10 * time.Second

// Session is one reconstructed visit.
type Session struct {
	SessionID   string    `json:"session_id"`
	StartedAt   time.Time `json:"started_at"`
	DurationSec float64   `json:"duration_sec"`
	PagesViewed int       `json:"pages_viewed"`
	LandingPage string    `json:"landing_page"`
	ExitPage    string    `json:"exit_page"`
	Device      string    `json:"device"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	City        string    `json:"city"`
	IsBounce    bool      `json:"is_bounce"`

	Bot botcheck.Result `json:"bot"`
}

// Builder turns raw events into sessions. The classifier is a black
// box; a nil classifier leaves every session unclassified.
type Builder struct {
	classifier botcheck.Classifier
}

// NewBuilder creates a session builder.
func NewBuilder(classifier botcheck.Classifier) *Builder {
	return &Builder{classifier: classifier}
}

// Build groups events by session key and reconstructs one Session per
// group. The result is sorted descending by start time. An empty input
// yields an empty slice, never nil dereferences downstream.
func (b *Builder) Build(events []*event.RawEvent) []Session {
	groups := event.GroupBySession(events)

	sessions := make([]Session, 0, len(groups))
	for key, group := range groups {
		sessions = append(sessions, b.buildOne(key, group))
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions
}

// buildOne reconstructs a single session from its sorted event group.
// Groups always hold at least one event.
func (b *Builder) buildOne(key string, group []*event.RawEvent) Session {
	first := group[0]
	last := group[len(group)-1]

	rawElapsed := last.CreatedAt.Sub(first.CreatedAt)

	// The page_exit event self-reports time on page; prefer it over the
	// wall-clock delta when present.
	exitEvent := findPageExit(group)
	duration := rawElapsed.Seconds()
	if exitEvent != nil && exitEvent.TimeOnPage != nil {
		duration = *exitEvent.TimeOnPage
	}

	pages := distinctPages(group)

	exitPageEvent := last
	if exitEvent != nil {
		exitPageEvent = exitEvent
	}

	s := Session{
		SessionID:   key,
		StartedAt:   first.CreatedAt,
		DurationSec: duration,
		PagesViewed: pages,
		LandingPage: event.PagePath(first.PageURL),
		ExitPage:    event.PagePath(exitPageEvent.PageURL),
		Device:      first.Device,
		Browser:     first.Browser,
		OS:          first.OS,
		City:        first.City,
		// The bounce test deliberately uses the raw elapsed time, not
		// the reported duration; the two can disagree when page_exit
		// self-reports.
		IsBounce: pages <= 1 && rawElapsed < bounceMaxElapsed,
	}

	if b.classifier != nil {
		s.Bot = b.classifier.Classify(botcheck.Signals{
			Browser:   first.Browser,
			OS:        first.OS,
			Device:    first.Device,
			City:      first.City,
			Referrer:  first.Referrer,
			UserAgent: first.UserAgent,
		})
	}

	return s
}

func findPageExit(group []*event.RawEvent) *event.RawEvent {
	for _, e := range group {
		if e.EventType == event.TypePageExit {
			return e
		}
	}
	return nil
}

// distinctPages counts distinct non-empty page URLs, with a floor of 1
// so a session of URL-less events still registers as one page.
func distinctPages(group []*event.RawEvent) int {
	seen := make(map[string]struct{})
	for _, e := range group {
		if e.PageURL != "" {
			seen[e.PageURL] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return 1
	}
	return len(seen)
}
