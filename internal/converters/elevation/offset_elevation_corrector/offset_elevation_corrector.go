package offset_elevation_corrector

import "github.com/ecopia-map/vector_tiler/internal/converters"

// Maximum value of the depth channel
const MaxDepth = 255

// Maps depth in [0, 255] to [-0.5, 0.5] and shifts it by a fixed offset
type OffsetElevationCorrector struct {
	Offset float64
}

func NewOffsetElevationCorrector(offset float64) converters.ElevationCorrector {
	return &OffsetElevationCorrector{
		Offset: offset,
	}
}

func (c *OffsetElevationCorrector) CorrectElevation(x, y, depth float64) float64 {
	return depth/MaxDepth - 0.5 + c.Offset
}
