package tree

import (
	"errors"

	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
)

var (
	ErrNilPoint      = errors.New("nil point in input")
	ErrTreeNotBuilt  = errors.New("tree not built")
	ErrInvalidCanvas = errors.New("canvas width and height must be positive")
)

// Spatial tree over a 2-D point set that can be carved into nested colored regions
type ITree interface {
	// Builds the tree from scratch, discarding any previous build
	BuildFrom(points []*data.Point, width, height float64, mode ColorMode) error
	// Root node, nil when the tree was built from an empty point list
	Root() *Node
	IsBuilt() bool
	// Every node in pre-order
	Traverse() []*Node
	// Carves the clip polygon into regions, a nil clip means the whole canvas
	Carve(clip *geometry.Polygon, opts CarveOptions) (*Carving, error)
	// Drops the geometry of all nodes keeping their statistics
	Reset()
}

// Validates the shared BuildFrom arguments
func CheckInput(points []*data.Point, width, height float64) error {
	for _, p := range points {
		if p == nil {
			return ErrNilPoint
		}
	}
	if len(points) > 0 && (!(width > 0) || !(height > 0)) {
		return ErrInvalidCanvas
	}
	return nil
}
