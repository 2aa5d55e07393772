package algorithm_manager

import (
	"github.com/ecopia-map/vector_tiler/internal/converters"
	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
)

type AlgorithmManager interface {
	GetElevationCorrectionAlgorithm() converters.ElevationCorrector
	GetTreeAlgorithm(structure tiler.Structure) (tree.ITree, error)
	GetCoordinateConverterAlgorithm(width, height float64) converters.CoordinateConverter
}
