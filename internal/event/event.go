package event

import (
	"sort"
	"strings"
	"time"
)

// Common event type names produced by the tracking script. New types may
// appear at any time; consumers must treat unknown values as inert.
const (
	TypePageView   = "page_view"
	TypePageExit   = "page_exit"
	TypeClick      = "click"
	TypeCTAClick   = "cta_click"
	TypeMouseMove  = "mouse_move"
	TypePurchase   = "purchase"
	TypeConversion = "conversion"
	TypeLead       = "lead"
	TypeSignup     = "signup"
	TypeFormSubmit = "form_submit"
)

// MoveSample is a single cursor position captured by the tracker.
type MoveSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metadata carries the pointer/viewport payload attached to click and
// movement events.
type Metadata struct {
	ClickX      float64      `json:"click_x"`
	ClickY      float64      `json:"click_y"`
	ViewportW   int          `json:"viewport_w"`
	ViewportH   int          `json:"viewport_h"`
	DocHeight   int          `json:"doc_height"`
	MoveSamples []MoveSample `json:"move_samples,omitempty"`
	Href        string       `json:"href,omitempty"`
}

// RawEvent is a single tracking event as produced by the ingestion
// pipeline. Events are immutable once created; every aggregation is a
// pure function over a snapshot of them. No ordering is guaranteed
// across a collection — consumers sort on CreatedAt themselves.
type RawEvent struct {
	ID        string
	SessionID string
	VisitorID string
	EventType string
	CreatedAt time.Time

	PageURL     string
	CTAText     string
	CTASelector string

	ScrollDepth  *float64
	TimeOnPage   *float64
	ProductName  string
	ProductPrice *float64
	CartValue    *float64

	Device    string
	Browser   string
	OS        string
	City      string
	Country   string
	Referrer  string
	UserAgent string

	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	UTMTerm     string
	UTMContent  string

	Metadata Metadata
}

// GroupKey is the session grouping key: session id when present, visitor
// id as fallback, "unknown" as last resort.
func (e *RawEvent) GroupKey() string {
	if e.SessionID != "" {
		return e.SessionID
	}
	if e.VisitorID != "" {
		return e.VisitorID
	}
	return "unknown"
}

// IsConversion reports whether the event type counts as a conversion.
func (e *RawEvent) IsConversion() bool {
	switch e.EventType {
	case TypePurchase, TypeConversion, TypeLead, TypeSignup, TypeFormSubmit:
		return true
	}
	return false
}

// Revenue returns the monetary value of a conversion event: product
// price when reported, cart value otherwise, zero when neither is set.
func (e *RawEvent) Revenue() float64 {
	if e.ProductPrice != nil {
		return *e.ProductPrice
	}
	if e.CartValue != nil {
		return *e.CartValue
	}
	return 0
}

// PagePath strips scheme and host from a page URL, keeping the path,
// query and fragment. Values that are already paths pass through.
func PagePath(raw string) string {
	s := raw
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.IndexByte(s, '/'); j >= 0 {
			s = s[j:]
		} else {
			s = "/"
		}
	}
	if s == "" {
		return raw
	}
	return s
}

// SortByCreatedAt orders events ascending by timestamp in place.
// Timestamps are treated as opaque sortable values; no validation is
// performed on them. The sort is stable so equal-timestamp events keep
// their input order.
func SortByCreatedAt(events []*RawEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

// GroupBySession buckets events by GroupKey, each bucket sorted
// ascending by CreatedAt. Every bucket holds at least one event.
func GroupBySession(events []*RawEvent) map[string][]*RawEvent {
	groups := make(map[string][]*RawEvent)
	for _, e := range events {
		key := e.GroupKey()
		groups[key] = append(groups[key], e)
	}
	for _, g := range groups {
		SortByCreatedAt(g)
	}
	return groups
}
