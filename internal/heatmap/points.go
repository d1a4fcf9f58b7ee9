package heatmap

import (
	"strings"

	"github.com/pagepulse/pagepulse/internal/event"
)

// Point is one spatial sample in document coordinates, tagged with the
// viewport it was captured in. Positions are always interpreted
// relative to the reference viewport width computed over the sample.
type Point struct {
	X         float64
	Y         float64
	ViewportW int
	ViewportH int
	DocHeight int
}

// Filter selects the page and device slice of the event snapshot a
// spatial aggregation runs over. Empty fields match everything.
type Filter struct {
	Page   string
	Device string
}

func (f Filter) matches(e *event.RawEvent) bool {
	if f.Page != "" && event.PagePath(e.PageURL) != f.Page {
		return false
	}
	if f.Device != "" && !strings.EqualFold(e.Device, f.Device) {
		return false
	}
	return true
}

// ClickPoints extracts click coordinates for the filtered slice.
func ClickPoints(events []*event.RawEvent, f Filter) []Point {
	points := make([]Point, 0, len(events))
	for _, e := range events {
		if e.EventType != event.TypeClick && e.EventType != event.TypeCTAClick {
			continue
		}
		if !f.matches(e) {
			continue
		}
		// The tracker leaves both coordinates at 0 when it captured no
		// position. A genuine click on the top-left corner pixel is
		// indistinguishable from that and is dropped with it.
		if e.Metadata.ClickX == 0 && e.Metadata.ClickY == 0 {
			continue
		}
		points = append(points, Point{
			X:         e.Metadata.ClickX,
			Y:         e.Metadata.ClickY,
			ViewportW: e.Metadata.ViewportW,
			ViewportH: e.Metadata.ViewportH,
			DocHeight: e.Metadata.DocHeight,
		})
	}
	return points
}

// MoveTrails groups cursor movement samples by session, keeping each
// session's samples in event order.
func MoveTrails(events []*event.RawEvent, f Filter) map[string][]Point {
	sorted := make([]*event.RawEvent, len(events))
	copy(sorted, events)
	event.SortByCreatedAt(sorted)

	trails := make(map[string][]Point)
	for _, e := range sorted {
		if e.EventType != event.TypeMouseMove || !f.matches(e) {
			continue
		}
		key := e.GroupKey()
		for _, s := range e.Metadata.MoveSamples {
			trails[key] = append(trails[key], Point{
				X:         s.X,
				Y:         s.Y,
				ViewportW: e.Metadata.ViewportW,
				ViewportH: e.Metadata.ViewportH,
				DocHeight: e.Metadata.DocHeight,
			})
		}
	}
	return trails
}
