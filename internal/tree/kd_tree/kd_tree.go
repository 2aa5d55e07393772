package kd_tree

import (
	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

const noNode = -1

// K-d tree built by recursive exact median selection, splitting on x at even depths and y at odd ones
type KdTree struct {
	seed      string
	rng       *rand.Rand
	colorMode tree.ColorMode
	width     float64
	height    float64
	points    []*data.Point
	nodes     []kdNode
	root      int
	built     bool
}

type kdNode struct {
	tree.Node
	axis  geometry.Axis
	left  int // coordinate on axis <= the node one
	right int // coordinate on axis >= the node one
}

// Instantiates a new empty KdTree, the seed drives pivot choices of the median selection
func NewKdTree(seed string) *KdTree {
	return &KdTree{
		seed: seed,
		root: noNode,
	}
}

func (t *KdTree) BuildFrom(points []*data.Point, width, height float64, mode tree.ColorMode) error {
	if err := tree.CheckInput(points, width, height); err != nil {
		return err
	}

	t.rng = tree.NewRandom(t.seed)
	t.colorMode = mode
	t.width = width
	t.height = height
	t.points = points
	t.nodes = make([]kdNode, 0, len(points))

	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(idx, 0)
	if t.root != noNode {
		t.aggregate(t.root)
	}
	t.built = true
	return nil
}

func (t *KdTree) build(idx []int, depth int) int {
	if len(idx) == 0 {
		return noNode
	}

	axis := geometry.AxisAtDepth(depth)
	coord := func(i int) float64 {
		return axis.Coord(r2.Vec{X: t.points[i].X, Y: t.points[i].Y})
	}
	median := len(idx) / 2
	tree.Select(idx, median, coord, t.rng)

	current := len(t.nodes)
	t.nodes = append(t.nodes, kdNode{
		Node:  *tree.NewNode(t.points[idx[median]]),
		axis:  axis,
		left:  noNode,
		right: noNode,
	})
	left := t.build(idx[:median], depth+1)
	right := t.build(idx[median+1:], depth+1)
	t.nodes[current].left = left
	t.nodes[current].right = right
	return current
}

func (t *KdTree) aggregate(i int) {
	n := &t.nodes[i]
	if n.left != noNode {
		t.aggregate(n.left)
	}
	if n.right != noNode {
		t.aggregate(n.right)
	}
	n.Aggregate(t.colorMode, t.node(n.left), t.node(n.right))
}

func (t *KdTree) node(i int) *tree.Node {
	if i == noNode {
		return nil
	}
	return &t.nodes[i].Node
}

func (t *KdTree) Root() *tree.Node {
	return t.node(t.root)
}

func (t *KdTree) IsBuilt() bool {
	return t.built
}

// Left and right children of the node, nil when absent
func (t *KdTree) Children(n *tree.Node) (left, right *tree.Node) {
	if i := t.indexOf(n); i != noNode {
		return t.node(t.nodes[i].left), t.node(t.nodes[i].right)
	}
	return nil, nil
}

// Splitting axis of the node
func (t *KdTree) Axis(n *tree.Node) geometry.Axis {
	if i := t.indexOf(n); i != noNode {
		return t.nodes[i].axis
	}
	return geometry.AxisX
}

func (t *KdTree) indexOf(n *tree.Node) int {
	for i := range t.nodes {
		if &t.nodes[i].Node == n {
			return i
		}
	}
	return noNode
}

func (t *KdTree) Traverse() []*tree.Node {
	nodes := make([]*tree.Node, 0, len(t.nodes))
	t.walk(t.root, func(i int) { nodes = append(nodes, &t.nodes[i].Node) })
	return nodes
}

func (t *KdTree) walk(i int, visit func(i int)) {
	if i == noNode {
		return
	}
	visit(i)
	t.walk(t.nodes[i].left, visit)
	t.walk(t.nodes[i].right, visit)
}

func (t *KdTree) Reset() {
	for i := range t.nodes {
		t.nodes[i].ResetPath()
	}
}

func (t *KdTree) resetSubtree(i int) {
	t.walk(i, func(j int) { t.nodes[j].ResetPath() })
}

// Carves the clip by splitting rectangles at the node points. The root rectangle is the canvas
// extended to the clip bounds so the whole clip gets covered.
func (t *KdTree) Carve(clip *geometry.Polygon, opts tree.CarveOptions) (*tree.Carving, error) {
	if !t.built {
		return nil, tree.ErrTreeNotBuilt
	}
	t.Reset()
	if t.root == noNode {
		return tree.Collect(nil), nil
	}
	if clip == nil {
		clip = tree.CanvasClip(t.width, t.height)
	}
	area := r2.NewBox(0, 0, t.width, t.height).Union(clip.Bounds())
	t.carve(t.root, area, clip, 0, opts.Normalized())
	return tree.Collect(t.Traverse()), nil
}

func (t *KdTree) carve(i int, area r2.Box, clip *geometry.Polygon, level int, opts tree.CarveOptions) {
	n := &t.nodes[i]
	if n.Point() == nil {
		return
	}
	n.SetLevel(level)

	split := n.axis.Coord(r2.Vec{X: n.Point().X, Y: n.Point().Y})
	low, high := geometry.SplitAt(area, n.axis, split)

	leftExpanded := t.expand(n.left, low, clip, level, opts)
	rightExpanded := t.expand(n.right, high, clip, level, opts)

	var rect *geometry.Polygon
	switch {
	case !leftExpanded && !rightExpanded:
		rect = geometry.Rect(area)
	case !leftExpanded:
		rect = geometry.Rect(low)
	case !rightExpanded:
		rect = geometry.Rect(high)
	}
	n.SetPath(rect.Intersect(clip))
}

func (t *KdTree) expand(child int, area r2.Box, clip *geometry.Polygon, level int, opts tree.CarveOptions) bool {
	if child == noNode || !opts.ShouldExpand(&t.nodes[child].Node, level) {
		return false
	}
	t.carve(child, area, clip, level+1, opts)
	if opts.IsBelowMinArea(&t.nodes[child].Node) {
		t.resetSubtree(child)
		return false
	}
	return true
}
