package tree

import (
	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/lucasb-eyer/go-colorful"
)

// State shared by the nodes of every tree variant. Statistics (lod, color, count, subpoints) are
// computed once per build, geometry (path, child paths, levels) is rewritten by every carve.
type Node struct {
	point      *data.Point
	coincident []*data.Point
	lod        float64
	color      colorful.Color
	count      int
	subpoints  *PointSet

	path       *geometry.Polygon
	childPaths []*geometry.Polygon
	level      int
	minLevel   int
	maxLevel   int
}

// Instantiates a new Node holding the given point, which may be nil for structural nodes
func NewNode(point *data.Point) *Node {
	return &Node{
		point:      point,                        // pivot or representative point
		coincident: nil,                          // points merged into this node at max depth
		subpoints:  NewPointSet(),                // closure of the points in the subtree
		childPaths: make([]*geometry.Polygon, 0), // unexpanded fragments, quadtree only
	}
}

func (n *Node) Point() *data.Point {
	return n.point
}

func (n *Node) SetPoint(point *data.Point) {
	n.point = point
}

// Merges a point into the node without creating a child, used when splitting cannot separate points
func (n *Node) AddCoincident(point *data.Point) {
	n.coincident = append(n.coincident, point)
}

func (n *Node) Coincident() []*data.Point {
	return n.coincident
}

func (n *Node) LOD() float64 {
	return n.lod
}

func (n *Node) Color() colorful.Color {
	return n.color
}

func (n *Node) NumberOfPoints() int {
	return n.count
}

func (n *Node) Subpoints() *PointSet {
	return n.subpoints
}

func (n *Node) Path() *geometry.Polygon {
	return n.path
}

func (n *Node) SetPath(path *geometry.Polygon) {
	if path.IsEmpty() {
		path = nil
	}
	n.path = path
}

func (n *Node) ChildPaths() []*geometry.Polygon {
	return n.childPaths
}

func (n *Node) AddChildPath(path *geometry.Polygon) {
	if path.IsEmpty() {
		return
	}
	n.childPaths = append(n.childPaths, path)
}

func (n *Node) Level() int {
	return n.level
}

func (n *Node) SetLevel(level int) {
	n.level = level
}

func (n *Node) MinLevel() int {
	return n.minLevel
}

func (n *Node) MaxLevel() int {
	return n.maxLevel
}

// Drops the node geometry, statistics are untouched
func (n *Node) ResetPath() {
	n.path = nil
	n.childPaths = n.childPaths[:0]
	n.level = 0
	n.minLevel = 0
	n.maxLevel = 0
}

// Mean depth of the subpoints
func (n *Node) MeanDepth() float64 {
	points := n.subpoints.Points()
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Depth
	}
	return sum / float64(len(points))
}

// Mean of a channel over the subpoints
func (n *Node) MeanOf(channel func(p *data.Point) float64) float64 {
	points := n.subpoints.Points()
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += channel(p)
	}
	return sum / float64(len(points))
}

// Computes count, lod, subpoints and color from the node own points and its already aggregated
// children. Nil children are skipped. Must be called bottom-up.
func (n *Node) Aggregate(mode ColorMode, children ...*Node) {
	n.subpoints = NewPointSet()
	n.count = 0
	lodSum := 0.0

	if n.point != nil {
		n.subpoints.Add(n.point)
		n.count++
		lodSum += n.point.LOD
	}
	for _, p := range n.coincident {
		n.subpoints.Add(p)
		n.count++
		lodSum += p.LOD
	}

	hasChildren := false
	for _, child := range children {
		if child == nil {
			continue
		}
		hasChildren = true
		n.count += child.count
		lodSum += child.lod * float64(child.count)
		n.subpoints.Merge(child.subpoints)
	}

	n.lod = 0
	if n.count > 0 {
		n.lod = lodSum / float64(n.count)
	}
	if !hasChildren && n.point != nil && len(n.coincident) == 0 {
		// leaf rule
		n.lod = n.point.LOD
	}
	n.color = aggregateColor(n, mode)
}
