package heatmap

import (
	"image"
	"math"
)

// RenderOptions control a single density or trail render. The returned
// buffer is owned exclusively by the caller; renders never share or
// mutate a buffer across calls.
type RenderOptions struct {
	CanvasWidth  int
	CanvasHeight int
	ScrollOffset float64
	Radius       int
	Intensity    float64 // 0..1 alpha of a gradient center
}

// Remap band thresholds and alpha shaping for the exported ramp. Any
// change here breaks visual compatibility with previously exported
// snapshots.
const (
	bandRed    = 0.7
	bandYellow = 0.4
	bandCyan   = 0.2

	alphaBoost = 1.5
	alphaCap   = 199 // ~0.78 opacity
)

func (o RenderOptions) withDefaults() RenderOptions {
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = DefaultReferenceViewport
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = 900
	}
	if o.Radius <= 0 {
		o.Radius = 28
	}
	if o.Intensity <= 0 || o.Intensity > 1 {
		o.Intensity = 0.55
	}
	return o
}

// RenderDensity composites every visible point as a radial gradient
// into a fresh RGBA buffer. Point coordinates are scaled from the
// sample's reference viewport width to the canvas width; points whose
// mapped y falls outside the canvas band (plus a radius margin) are
// skipped. The output is deterministic for identical inputs.
func RenderDensity(points []Point, opts RenderOptions) *image.RGBA {
	opts = opts.withDefaults()
	buf := image.NewRGBA(image.Rect(0, 0, opts.CanvasWidth, opts.CanvasHeight))

	refWidth := ReferenceViewportWidth(points)
	scale := float64(opts.CanvasWidth) / float64(refWidth)

	for _, p := range points {
		cx := p.X * scale
		cy := (p.Y - opts.ScrollOffset) * scale
		if cy < -float64(opts.Radius) || cy > float64(opts.CanvasHeight)+float64(opts.Radius) {
			continue
		}
		stampGradient(buf, cx, cy, opts.Radius, opts.Intensity)
	}

	return buf
}

// stampGradient draws one radial gradient: an opaque warm center fading
// through orange and yellow into a transparent blue rim at the radius.
func stampGradient(buf *image.RGBA, cx, cy float64, radius int, intensity float64) {
	minX := int(math.Floor(cx)) - radius
	maxX := int(math.Ceil(cx)) + radius
	minY := int(math.Floor(cy)) - radius
	maxY := int(math.Ceil(cy)) + radius

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist > float64(radius) {
				continue
			}

			t := dist / float64(radius)
			r, g, b := gradientColor(t)
			a := uint8(math.Round(intensity * (1 - t) * 255))
			if a == 0 {
				continue
			}
			blendAdd(buf, x, y, r, g, b, a)
		}
	}
}

// gradientColor interpolates the warm-center stops: red-orange at the
// middle, orange, yellow, then blue at the rim where alpha runs out.
func gradientColor(t float64) (uint8, uint8, uint8) {
	switch {
	case t < 0.25:
		return lerpRGB(t/0.25, 255, 64, 0, 255, 140, 0)
	case t < 0.6:
		return lerpRGB((t-0.25)/0.35, 255, 140, 0, 255, 220, 0)
	default:
		return lerpRGB((t-0.6)/0.4, 255, 220, 0, 0, 0, 255)
	}
}

func lerpRGB(t float64, r0, g0, b0, r1, g1, b1 float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return uint8(math.Round(r0 + (r1-r0)*t)),
		uint8(math.Round(g0 + (g1-g0)*t)),
		uint8(math.Round(b0 + (b1-b0)*t))
}

// blendAdd blends color toward the incoming sample proportionally to
// its alpha and accumulates coverage additively. Integer math keeps the
// result byte-identical across runs.
func blendAdd(buf *image.RGBA, x, y int, sr, sg, sb, sa uint8) {
	bounds := buf.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}

	i := buf.PixOffset(x, y)
	pix := buf.Pix[i : i+4 : i+4]

	f := int(sa)
	pix[0] = uint8((int(pix[0])*(255-f) + int(sr)*f) / 255)
	pix[1] = uint8((int(pix[1])*(255-f) + int(sg)*f) / 255)
	pix[2] = uint8((int(pix[2])*(255-f) + int(sb)*f) / 255)

	a := int(pix[3]) + f
	if a > 255 {
		a = 255
	}
	pix[3] = uint8(a)
}

// Remap pushes an accumulated density buffer through the fixed 4-band
// color ramp keyed on normalized alpha and rescales opacity. It returns
// a new buffer and leaves the input untouched; the bands, multiplier
// and cap must stay exactly as exported snapshots were rendered with.
func Remap(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())

	for i := 0; i < len(src.Pix); i += 4 {
		a := src.Pix[i+3]
		if a == 0 {
			continue
		}

		norm := float64(a) / 255
		var r, g, b uint8
		switch {
		case norm > bandRed:
			r, g, b = 255, 0, 0
		case norm > bandYellow:
			r, g, b = 255, 255, 0
		case norm > bandCyan:
			r, g, b = 0, 255, 255
		default:
			r, g, b = 0, 0, 255
		}

		boosted := int(math.Round(float64(a) * alphaBoost))
		if boosted > alphaCap {
			boosted = alphaCap
		}

		dst.Pix[i] = r
		dst.Pix[i+1] = g
		dst.Pix[i+2] = b
		dst.Pix[i+3] = uint8(boosted)
	}

	return dst
}
