package svg

import (
	"strconv"

	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/lucasb-eyer/go-colorful"
)

// A single <path> of the document together with the node data written as attributes
type Element struct {
	ID       string
	Fill     colorful.Color
	PathData string
	Level    int
	MinLevel int
	MaxLevel int
	Depth    float64
	Point    *data.Point // nil when the node owns no point
}

// Turns a carved region into its path elements. Regions carrying separate pieces of their
// polygon give one element per piece, the others a single element. Pieces whose path
// data rounds away to nothing are dropped.
func NewElements(index int, region tree.Region, precision int) []*Element {
	pieces := region.Shapes()

	elements := make([]*Element, 0, len(pieces))
	for i, piece := range pieces {
		d := PathData(piece, precision)
		if d == "" {
			continue
		}
		id := strconv.Itoa(index)
		if len(pieces) > 1 {
			id += "-" + strconv.Itoa(i)
		}
		elements = append(elements, &Element{
			ID:       id,
			Fill:     region.Color,
			PathData: d,
			Level:    region.Level,
			MinLevel: region.MinLevel,
			MaxLevel: region.MaxLevel,
			Depth:    region.Node.MeanDepth(),
			Point:    region.Node.Point(),
		})
	}
	return elements
}

// Position of the element level inside the used level range, 0 when the range is a single level
func (e *Element) LevelRatio() float64 {
	if e.MaxLevel <= e.MinLevel {
		return 0
	}
	return float64(e.Level-e.MinLevel) / float64(e.MaxLevel-e.MinLevel)
}
