package canvas_coordinate_converter

import (
	"math"

	"github.com/ecopia-map/vector_tiler/internal/converters"
)

// Centers the canvas on the origin and scales its longest side to [-1, 1]. The y axis is flipped so
// that the mesh is upright.
type CanvasCoordinateConverter struct {
	centerX float64
	centerY float64
	scale   float64
}

func NewCanvasCoordinateConverter(width, height float64) converters.CoordinateConverter {
	scale := math.Max(width, height) / 2
	if scale <= 0 {
		scale = 1
	}
	return &CanvasCoordinateConverter{
		centerX: width / 2,
		centerY: height / 2,
		scale:   scale,
	}
}

func (c *CanvasCoordinateConverter) ConvertToMesh(x, y float64) (float64, float64) {
	return (x - c.centerX) / c.scale, -(y - c.centerY) / c.scale
}

// Nothing to release
func (c *CanvasCoordinateConverter) Cleanup() {}
