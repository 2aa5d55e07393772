package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Axis used at the given tree depth, alternating x and y starting with x at the root
func AxisAtDepth(depth int) Axis {
	return Axis(depth % 2)
}

func (a Axis) Coord(v r2.Vec) float64 {
	if a == AxisX {
		return v.X
	}
	return v.Y
}

// Splits the box into its four quadrants in top-left, top-right, bottom-left, bottom-right order.
// Image coordinates are used, so "top" is the half with the smaller y.
func Quadrants(box r2.Box) [4]r2.Box {
	c := box.Center()
	return [4]r2.Box{
		{Min: box.Min, Max: c},
		{Min: r2.Vec{X: c.X, Y: box.Min.Y}, Max: r2.Vec{X: box.Max.X, Y: c.Y}},
		{Min: r2.Vec{X: box.Min.X, Y: c.Y}, Max: r2.Vec{X: c.X, Y: box.Max.Y}},
		{Min: c, Max: box.Max},
	}
}

// Splits the box with a line orthogonal to the axis at the given value, clamped to the box extent
func SplitAt(box r2.Box, axis Axis, value float64) (low, high r2.Box) {
	low, high = box, box
	if axis == AxisX {
		v := math.Min(math.Max(value, box.Min.X), box.Max.X)
		low.Max.X = v
		high.Min.X = v
	} else {
		v := math.Min(math.Max(value, box.Min.Y), box.Max.Y)
		low.Max.Y = v
		high.Min.Y = v
	}
	return low, high
}

// Grows the box by the given amount on every side
func Grow(box r2.Box, amount float64) r2.Box {
	return r2.Box{
		Min: r2.Sub(box.Min, r2.Vec{X: amount, Y: amount}),
		Max: r2.Add(box.Max, r2.Vec{X: amount, Y: amount}),
	}
}

func BoxArea(box r2.Box) float64 {
	if box.Empty() {
		return 0
	}
	s := box.Size()
	return s.X * s.Y
}
