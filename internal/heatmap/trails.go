package heatmap

import (
	"image"
	"math"
	"sort"
)

// Trail opacity ramps from trailMinOpacity at a session's oldest point
// to trailMaxOpacity at its newest; sessions with more than
// settledGlowThreshold points also get a faint radial glow per point.
const (
	trailMinOpacity      = 0.3
	trailMaxOpacity      = 0.8
	settledGlowThreshold = 10
	settledGlowOpacity   = 0.12
)

// RenderTrails draws each session's movement samples as a connected
// polyline, most recent segments most opaque. Sessions are rendered in
// sorted key order so the composite is deterministic.
func RenderTrails(trails map[string][]Point, opts RenderOptions) *image.RGBA {
	opts = opts.withDefaults()
	buf := image.NewRGBA(image.Rect(0, 0, opts.CanvasWidth, opts.CanvasHeight))

	var all []Point
	for _, points := range trails {
		all = append(all, points...)
	}
	refWidth := ReferenceViewportWidth(all)
	scale := float64(opts.CanvasWidth) / float64(refWidth)

	keys := make([]string, 0, len(trails))
	for k := range trails {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		points := trails[key]
		if len(points) == 0 {
			continue
		}

		mapped := make([][2]float64, len(points))
		for i, p := range points {
			mapped[i] = [2]float64{p.X * scale, (p.Y - opts.ScrollOffset) * scale}
		}

		for i := 1; i < len(mapped); i++ {
			frac := 0.0
			if len(mapped) > 2 {
				frac = float64(i-1) / float64(len(mapped)-2)
			}
			opacity := trailMinOpacity + (trailMaxOpacity-trailMinOpacity)*frac
			drawLine(buf, mapped[i-1], mapped[i], uint8(math.Round(opacity*255)))
		}

		if len(points) > settledGlowThreshold {
			for _, m := range mapped {
				stampGradient(buf, m[0], m[1], opts.Radius/2, settledGlowOpacity)
			}
		}
	}

	return buf
}

// drawLine rasterizes one trail segment with simple DDA stepping.
func drawLine(buf *image.RGBA, from, to [2]float64, alpha uint8) {
	dx := to[0] - from[0]
	dy := to[1] - from[1]
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		blendAdd(buf, int(math.Round(from[0])), int(math.Round(from[1])), 255, 140, 0, alpha)
		return
	}

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := int(math.Round(from[0] + dx*t))
		y := int(math.Round(from[1] + dy*t))
		blendAdd(buf, x, y, 255, 140, 0, alpha)
	}
}
