package heatmap

import "fmt"

// HotZone partitions the estimated document height into ten equal
// deciles, counts clicks per decile, and reports the busiest one as a
// human range such as "20-30%". Ties resolve to the lowest decile. A
// zero or negative document height falls back to DefaultDocHeight.
func HotZone(points []Point, docHeight int) (string, [10]int) {
	if docHeight <= 0 {
		docHeight = DefaultDocHeight
	}

	var counts [10]int
	for _, p := range points {
		decile := int(p.Y * 10 / float64(docHeight))
		if decile < 0 {
			decile = 0
		}
		if decile > 9 {
			decile = 9
		}
		counts[decile]++
	}

	best := 0
	for i := 1; i < 10; i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}

	return fmt.Sprintf("%d-%d%%", best*10, (best+1)*10), counts
}
