// Package heatmap builds the activity and spatial density views of the
// dashboard: day-by-hour grids, click density rasters with the fixed
// export color ramp, movement trails and hot-zone summaries. Everything
// here is a pure function over an event or point snapshot.
package heatmap

import (
	"time"

	"github.com/pagepulse/pagepulse/internal/event"
)

// ActivityGrid is a 7×24 count grid: rows are days of week with Monday
// first, columns are hours of day.
type ActivityGrid [7][24]int

// Total sums all cells. For EventGrid this equals the number of input
// events.
func (g *ActivityGrid) Total() int {
	total := 0
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			total += g[d][h]
		}
	}
	return total
}

// EventGrid buckets every event into its (day, hour) cell.
func EventGrid(events []*event.RawEvent) ActivityGrid {
	var grid ActivityGrid
	for _, e := range events {
		d, h := gridSlot(e.CreatedAt)
		grid[d][h]++
	}
	return grid
}

// SessionGrid is the distinct-session variant: a cell counts the number
// of sessions active in it rather than raw events.
func SessionGrid(events []*event.RawEvent) ActivityGrid {
	var seen [7][24]map[string]struct{}
	for _, e := range events {
		d, h := gridSlot(e.CreatedAt)
		if seen[d][h] == nil {
			seen[d][h] = make(map[string]struct{})
		}
		seen[d][h][e.GroupKey()] = struct{}{}
	}

	var grid ActivityGrid
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			grid[d][h] = len(seen[d][h])
		}
	}
	return grid
}

// gridSlot maps a timestamp to its grid cell, shifting Go's
// Sunday-first weekday so Monday lands on row 0.
func gridSlot(t time.Time) (day, hour int) {
	return (int(t.Weekday()) + 6) % 7, t.Hour()
}
