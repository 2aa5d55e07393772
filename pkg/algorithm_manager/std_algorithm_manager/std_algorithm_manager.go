package std_algorithm_manager

import (
	"fmt"

	"github.com/ecopia-map/vector_tiler/internal/converters"
	"github.com/ecopia-map/vector_tiler/internal/converters/canvas_coordinate_converter"
	"github.com/ecopia-map/vector_tiler/internal/converters/elevation/offset_elevation_corrector"
	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/internal/tree/kd_tree"
	"github.com/ecopia-map/vector_tiler/internal/tree/quad_tree"
	"github.com/ecopia-map/vector_tiler/internal/tree/vp_tree"
	"github.com/ecopia-map/vector_tiler/pkg/algorithm_manager"
)

type StandardAlgorithmManager struct {
	options *tiler.TilerOptions
}

func NewAlgorithmManager(opts *tiler.TilerOptions) algorithm_manager.AlgorithmManager {
	return &StandardAlgorithmManager{
		options: opts,
	}
}

func (m *StandardAlgorithmManager) GetElevationCorrectionAlgorithm() converters.ElevationCorrector {
	offset := 0.0
	if m.options.TilerMeshOptions != nil {
		offset = m.options.TilerMeshOptions.ZOffset
	}
	return offset_elevation_corrector.NewOffsetElevationCorrector(offset)
}

// A fresh tree of the given structure, seeded with the tiler seed
func (m *StandardAlgorithmManager) GetTreeAlgorithm(structure tiler.Structure) (tree.ITree, error) {
	switch tiler.ParseStructure(string(structure)) {
	case tiler.StructureVP:
		return vp_tree.NewVPTree(m.options.Seed), nil
	case tiler.StructureQuad:
		return quad_tree.NewQuadTree(quad_tree.DefaultMaxDepth), nil
	case tiler.StructureKD:
		return kd_tree.NewKdTree(m.options.Seed), nil
	}
	return nil, fmt.Errorf("%w: unrecognized structure %q", tiler.ErrInvalidOptions, structure)
}

func (m *StandardAlgorithmManager) GetCoordinateConverterAlgorithm(width, height float64) converters.CoordinateConverter {
	return canvas_coordinate_converter.NewCanvasCoordinateConverter(width, height)
}
