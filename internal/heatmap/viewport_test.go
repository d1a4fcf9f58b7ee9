package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceViewportWidthMode(t *testing.T) {
	tests := []struct {
		name   string
		widths []int
		expect int
	}{
		{"empty falls back", nil, DefaultReferenceViewport},
		{"single sample", []int{390}, 390},
		{"clear mode", []int{1440, 1440, 390}, 1440},
		{"tie resolves to smallest", []int{390, 1440}, 390},
		{"zero widths ignored", []int{0, 0, 1280}, 1280},
		{"all zero falls back", []int{0, 0}, DefaultReferenceViewport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]Point, len(tt.widths))
			for i, w := range tt.widths {
				points[i] = Point{ViewportW: w}
			}
			assert.Equal(t, tt.expect, ReferenceViewportWidth(points))
		})
	}
}

func TestEstimateDocHeight(t *testing.T) {
	assert.Equal(t, DefaultDocHeight, EstimateDocHeight(nil))
	assert.Equal(t, 5200, EstimateDocHeight([]Point{{DocHeight: 3000}, {DocHeight: 5200}}))
}
