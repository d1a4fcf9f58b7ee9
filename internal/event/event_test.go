package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagePath(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		expect string
	}{
		{"https url", "https://shop.test/pricing", "/pricing"},
		{"http url with query", "http://shop.test/p?a=1", "/p?a=1"},
		{"host only", "https://shop.test", "/"},
		{"already a path", "/pricing", "/pricing"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, PagePath(tt.in))
		})
	}
}

func TestGroupKeyFallbackChain(t *testing.T) {
	assert.Equal(t, "s1", (&RawEvent{SessionID: "s1", VisitorID: "v1"}).GroupKey())
	assert.Equal(t, "v1", (&RawEvent{VisitorID: "v1"}).GroupKey())
	assert.Equal(t, "unknown", (&RawEvent{}).GroupKey())
}

func TestGroupBySessionSortsEachGroup(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := []*RawEvent{
		{SessionID: "s1", CreatedAt: base.Add(time.Minute)},
		{SessionID: "s1", CreatedAt: base},
		{SessionID: "s2", CreatedAt: base},
	}

	groups := GroupBySession(events)
	require.Len(t, groups, 2)
	require.Len(t, groups["s1"], 2)
	assert.Equal(t, base, groups["s1"][0].CreatedAt)
}

func TestParseTolerant(t *testing.T) {
	scroll := 80.0
	raw := map[string]interface{}{
		"id":          "not-a-uuid",
		"session_id":  "s1",
		"event_type":  "page_exit",
		"created_at":  float64(1767351600000),
		"page_url":    "https://shop.test/a",
		"scroll_depth": scroll,
		"metadata": map[string]interface{}{
			"click_x":    120.0,
			"click_y":    340.0,
			"viewport_w": 1440.0,
			"move_samples": []interface{}{
				map[string]interface{}{"x": 1.0, "y": 2.0},
				"garbage",
			},
		},
		"unexpected": []interface{}{1, 2, 3},
	}

	e := Parse(raw)
	// Invalid ids are replaced, never passed through.
	assert.NotEqual(t, "not-a-uuid", e.ID)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "s1", e.SessionID)
	assert.Equal(t, TypePageExit, e.EventType)
	assert.Equal(t, time.UnixMilli(1767351600000), e.CreatedAt)
	require.NotNil(t, e.ScrollDepth)
	assert.Equal(t, 80.0, *e.ScrollDepth)
	assert.Equal(t, 120.0, e.Metadata.ClickX)
	assert.Equal(t, 1440, e.Metadata.ViewportW)
	require.Len(t, e.Metadata.MoveSamples, 1)
	assert.Equal(t, 2.0, e.Metadata.MoveSamples[0].Y)
}

func TestParseRFC3339Timestamp(t *testing.T) {
	e := Parse(map[string]interface{}{
		"created_at": "2026-03-02T10:00:00Z",
	})
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), e.CreatedAt)
}

func TestRevenuePrefersProductPrice(t *testing.T) {
	price := 80.0
	cart := 150.0

	assert.Equal(t, 80.0, (&RawEvent{ProductPrice: &price, CartValue: &cart}).Revenue())
	assert.Equal(t, 150.0, (&RawEvent{CartValue: &cart}).Revenue())
	assert.Zero(t, (&RawEvent{}).Revenue())
}
