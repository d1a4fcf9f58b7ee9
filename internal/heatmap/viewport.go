package heatmap

// Fallback dimensions used when a filtered point set is empty, so
// downstream scale math never divides by zero.
const (
	DefaultReferenceViewport = 1440
	DefaultDocHeight         = 3000
)

// ReferenceViewportWidth returns the statistical mode of the observed
// viewport widths. Coordinates from differently sized browsers are
// normalized against this width before rendering. Ties resolve to the
// smallest width; an empty sample falls back to
// DefaultReferenceViewport.
func ReferenceViewportWidth(points []Point) int {
	counts := make(map[int]int)
	for _, p := range points {
		if p.ViewportW > 0 {
			counts[p.ViewportW]++
		}
	}
	if len(counts) == 0 {
		return DefaultReferenceViewport
	}

	best, bestCount := 0, 0
	for w, n := range counts {
		if n > bestCount || (n == bestCount && w < best) {
			best, bestCount = w, n
		}
	}
	return best
}

// EstimateDocHeight returns the tallest document height observed in the
// sample, or DefaultDocHeight when no point reports one.
func EstimateDocHeight(points []Point) int {
	max := 0
	for _, p := range points {
		if p.DocHeight > max {
			max = p.DocHeight
		}
	}
	if max == 0 {
		return DefaultDocHeight
	}
	return max
}
