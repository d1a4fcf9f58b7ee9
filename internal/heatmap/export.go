package heatmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Banner heights of the exported image; the rendered heatmap sits
// between them.
const (
	topBannerHeight    = 60
	bottomBannerHeight = 40
)

// ExportMeta is the capture metadata baked into the exported image's
// banner regions.
type ExportMeta struct {
	ModeLabel   string
	CapturedAt  time.Time
	Path        string
	TotalClicks int
	AvgScroll   float64
	Visitors    int
}

// ExportPNG frames a rendered heatmap buffer with the top and bottom
// metadata banners and encodes the result as PNG.
func ExportPNG(buf *image.RGBA, meta ExportMeta) ([]byte, error) {
	width := buf.Bounds().Dx()
	height := buf.Bounds().Dy() + topBannerHeight + bottomBannerHeight

	out := image.NewRGBA(image.Rect(0, 0, width, height))

	bannerBG := color.RGBA{R: 24, G: 26, B: 32, A: 255}
	draw.Draw(out, image.Rect(0, 0, width, topBannerHeight), image.NewUniform(bannerBG), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, height-bottomBannerHeight, width, height), image.NewUniform(bannerBG), image.Point{}, draw.Src)

	draw.Draw(out, image.Rect(0, topBannerHeight, width, height-bottomBannerHeight), buf, buf.Bounds().Min, draw.Over)

	white := color.RGBA{R: 235, G: 237, B: 240, A: 255}
	drawText(out, 12, 24, fmt.Sprintf("%s heatmap - %s", meta.ModeLabel, meta.Path), white)
	drawText(out, 12, 44, fmt.Sprintf("captured %s", meta.CapturedAt.Format("2006-01-02 15:04")), white)
	drawText(out, 12, height-16, fmt.Sprintf("%d clicks · %.0f%% avg scroll · %d visitors",
		meta.TotalClicks, meta.AvgScroll, meta.Visitors), white)

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, out); err != nil {
		return nil, fmt.Errorf("encode heatmap png: %w", err)
	}
	return encoded.Bytes(), nil
}

func drawText(dst *image.RGBA, x, y int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
