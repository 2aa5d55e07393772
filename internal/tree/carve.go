package tree

import (
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Parameters bounding a carve
type CarveOptions struct {
	MaxLevel int     // recursion depth budget, 0 never expands the root
	MinArea  float64 // expanded regions below this area are folded back into their parent
}

// Clamps negative values to zero
func (o CarveOptions) Normalized() CarveOptions {
	if o.MaxLevel < 0 {
		o.MaxLevel = 0
	}
	if o.MinArea < 0 {
		o.MinArea = 0
	}
	return o
}

// A child is expanded while its lod, scaled to [0,1], is above level/maxLevel
func (o CarveOptions) ShouldExpand(child *Node, level int) bool {
	if child == nil || o.MaxLevel <= 0 || level >= o.MaxLevel {
		return false
	}
	return child.lod/255 > float64(level)/float64(o.MaxLevel)
}

// Reports whether an expanded child produced a region too small to keep
func (o CarveOptions) IsBelowMinArea(child *Node) bool {
	return child != nil && child.path != nil && child.path.Area() < o.MinArea
}

// A colored polygon emitted by a carve. Geometry and levels are copied at collect time and stay
// valid across later carves of the same tree, Node only serves its point statistics.
type Region struct {
	Polygon  *geometry.Polygon
	Pieces   []*geometry.Polygon // pieces of Polygon drawn separately, empty when drawn whole
	Color    colorful.Color
	Level    int
	MinLevel int
	MaxLevel int
	Node     *Node
}

// Polygons to draw for the region: its pieces when it has some, otherwise the whole polygon
func (r Region) Shapes() []*geometry.Polygon {
	if len(r.Pieces) > 0 {
		return r.Pieces
	}
	return []*geometry.Polygon{r.Polygon}
}

// Result of a carve: regions in traversal order and the range of levels they use
type Carving struct {
	Regions  []Region
	MinLevel int
	MaxLevel int
}

func (c *Carving) Area() float64 {
	area := 0.0
	for _, region := range c.Regions {
		area += region.Polygon.Area()
	}
	return area
}

// Builds the carving from a pre-order node list, keeping nodes with a region polygon.
// Nodes receive the global level range as their min and max level.
func Collect(nodes []*Node) *Carving {
	carving := &Carving{Regions: make([]Region, 0)}
	first := true
	for _, n := range nodes {
		if n.path == nil {
			continue
		}
		if first || n.level < carving.MinLevel {
			carving.MinLevel = n.level
		}
		if first || n.level > carving.MaxLevel {
			carving.MaxLevel = n.level
		}
		first = false
	}
	for _, n := range nodes {
		if n.path == nil {
			continue
		}
		n.minLevel = carving.MinLevel
		n.maxLevel = carving.MaxLevel
		carving.Regions = append(carving.Regions, Region{
			Polygon:  n.path,
			Pieces:   append([]*geometry.Polygon(nil), n.childPaths...),
			Color:    n.color,
			Level:    n.level,
			MinLevel: carving.MinLevel,
			MaxLevel: carving.MaxLevel,
			Node:     n,
		})
	}
	return carving
}

// Resets the geometry of every given node
func ResetAll(nodes []*Node) {
	for _, n := range nodes {
		n.ResetPath()
	}
}

// Clip used when the caller does not provide one: the whole canvas
func CanvasClip(width, height float64) *geometry.Polygon {
	return geometry.Rect(r2.NewBox(0, 0, width, height))
}
