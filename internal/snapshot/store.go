// Package snapshot persists exported heatmap captures with bounded
// retention: only the most recent captures are kept and the oldest are
// evicted first.
package snapshot

import (
	"context"
	"time"
)

// DefaultRetention is the number of snapshots kept per site.
const DefaultRetention = 30

// Snapshot is one stored heatmap capture.
type Snapshot struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Mode        string    `json:"mode"`
	Device      string    `json:"device"`
	TotalClicks int       `json:"total_clicks"`
	AvgScroll   float64   `json:"avg_scroll"`
	Visitors    int       `json:"visitors"`
	CapturedAt  time.Time `json:"captured_at"`
	Thumbnail   []byte    `json:"thumbnail"` // PNG bytes
}

// Store is the snapshot history contract. Implementations enforce the
// retention cap on Save, newest first.
type Store interface {
	List(ctx context.Context) ([]Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	DeleteAll(ctx context.Context) error
}
