package data

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Contains data of a sampled image point, namely X,Y pixel coords, the original and quantized
// R,G,B color and the per-pixel channels gathered by the sampler (level of detail, depth, matting,
// the two saliency measures and the segmentation color)
type Point struct {
	X float64
	Y float64

	Color          colorful.Color
	QuantizedColor colorful.Color

	LOD       float64
	Depth     float64
	Matting   float64
	SaliencyA float64
	SaliencyO float64
	Segment   [3]uint8
}

// Builds a new Point from the given coordinates, color and channel values. The quantized color starts
// out equal to the original color until a quantization pass assigns a palette entry.
func NewPoint(
	x, y, lod float64,
	color colorful.Color,
	depth, matting, saliencyA, saliencyO float64,
	segment [3]uint8,
) *Point {
	return &Point{
		X:              x,
		Y:              y,
		Color:          color,
		QuantizedColor: color,
		LOD:            lod,
		Depth:          depth,
		Matting:        matting,
		SaliencyA:      saliencyA,
		SaliencyO:      saliencyO,
		Segment:        segment,
	}
}

// Euclidean distance between two points
func (p *Point) Dist(other *Point) float64 {
	return p.DistToPoint(other.X, other.Y)
}

func (p *Point) DistToPoint(x, y float64) float64 {
	return math.Hypot(p.X-x, p.Y-y)
}

// Value of the named scalar channel (LOD, DEPTH, MATTING, SALIENCY_A, SALIENCY_O), false if unknown
func (p *Point) Channel(name string) (float64, bool) {
	switch name {
	case "LOD":
		return p.LOD, true
	case "DEPTH":
		return p.Depth, true
	case "MATTING":
		return p.Matting, true
	case "SALIENCY_A":
		return p.SaliencyA, true
	case "SALIENCY_O":
		return p.SaliencyO, true
	}
	return 0, false
}

// Copy of the point, layers filter their own copies so that quantization never leaks across layers
func (p *Point) Clone() *Point {
	c := *p
	return &c
}
