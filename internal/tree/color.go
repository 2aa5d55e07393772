package tree

import (
	"sort"
	"strings"

	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/lucasb-eyer/go-colorful"
)

type ColorMode string

const (
	// Quantized color of the middle subpoint once sorted along the channel with the widest spread
	ColorModeMedian ColorMode = "MEDIAN"

	// Arithmetic mean of the original subpoint colors
	ColorModeAverage ColorMode = "AVG"

	// Color of the node own point, falls back to AVG for nodes without a point
	ColorModePoint ColorMode = "POINT"
)

func ParseColorMode(value string) ColorMode {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	switch normalizedValue {
	case "MEDIAN":
		return ColorModeMedian
	case "AVG", "AVERAGE":
		return ColorModeAverage
	case "POINT":
		return ColorModePoint
	}
	return ""
}

func aggregateColor(n *Node, mode ColorMode) colorful.Color {
	switch mode {
	case ColorModeMedian:
		return MedianColor(n.subpoints.Points())
	case ColorModePoint:
		if n.point != nil {
			return n.point.Color
		}
	}
	return AverageColor(n.subpoints.Points())
}

func AverageColor(points []*data.Point) colorful.Color {
	if len(points) == 0 {
		return colorful.Color{}
	}
	var r, g, b float64
	for _, p := range points {
		r += p.Color.R
		g += p.Color.G
		b += p.Color.B
	}
	n := float64(len(points))
	return colorful.Color{R: r / n, G: g / n, B: b / n}
}

// Picks the RGB channel whose quantized values spread the most (ties prefer blue, then green),
// sorts the points along it and returns the quantized color of the middle one.
func MedianColor(points []*data.Point) colorful.Color {
	if len(points) == 0 {
		return colorful.Color{}
	}

	channels := [3]func(c colorful.Color) float64{
		func(c colorful.Color) float64 { return c.R },
		func(c colorful.Color) float64 { return c.G },
		func(c colorful.Color) float64 { return c.B },
	}

	var spread [3]float64
	for i, channel := range channels {
		lo, hi := channel(points[0].QuantizedColor), channel(points[0].QuantizedColor)
		for _, p := range points[1:] {
			v := channel(p.QuantizedColor)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		spread[i] = hi - lo
	}

	dominant := 0
	if spread[1] >= spread[0] && spread[1] >= spread[2] {
		dominant = 1
	}
	if spread[2] >= spread[0] && spread[2] >= spread[1] {
		dominant = 2
	}

	sorted := make([]*data.Point, len(points))
	copy(sorted, points)
	key := channels[dominant]
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i].QuantizedColor) < key(sorted[j].QuantizedColor)
	})
	return sorted[len(sorted)/2].QuantizedColor
}

// Luminance weighted gray of the given color
func GrayScale(c colorful.Color) colorful.Color {
	l := c.R*0.3 + c.G*0.59 + c.B*0.11
	return colorful.Color{R: l, G: l, B: l}
}
