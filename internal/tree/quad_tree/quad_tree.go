package quad_tree

import (
	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	noNode = -1

	// Subdivision depth past which colliding points are merged into the node
	DefaultMaxDepth = 24
)

// Quadrant indexes, in insertion and carving order
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
)

// Point-region quadtree over the fixed domain [0,0]-[width,height]. Each leaf holds one point,
// a second point landing in an occupied leaf evicts the first and both are inserted again from the root.
type QuadTree struct {
	maxDepth  int
	colorMode tree.ColorMode
	width     float64
	height    float64
	nodes     []quadNode
	root      int
	skipped   int
	built     bool
}

type quadNode struct {
	tree.Node
	bounds   r2.Box
	children [4]int
	filled   bool
	depth    int
}

// Instantiates a new empty QuadTree. A non positive maxDepth selects DefaultMaxDepth.
func NewQuadTree(maxDepth int) *QuadTree {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &QuadTree{
		maxDepth: maxDepth,
		root:     noNode,
	}
}

func (t *QuadTree) BuildFrom(points []*data.Point, width, height float64, mode tree.ColorMode) error {
	if err := tree.CheckInput(points, width, height); err != nil {
		return err
	}

	t.colorMode = mode
	t.width = width
	t.height = height
	t.nodes = make([]quadNode, 0, 2*len(points))
	t.root = noNode
	t.skipped = 0

	if len(points) > 0 {
		t.root = t.newNode(r2.Box{Max: r2.Vec{X: width, Y: height}}, 0)
		for _, p := range points {
			if !t.insert(p, t.root) {
				t.skipped++
			}
		}
		if t.skipped > 0 {
			glog.Warningf("quadtree: skipped %d points outside of [0,0]-[%v,%v]", t.skipped, width, height)
		}
		if t.skipped == len(points) {
			t.nodes = t.nodes[:0]
			t.root = noNode
		} else {
			t.aggregate(t.root)
		}
	}
	t.built = true
	return nil
}

func (t *QuadTree) newNode(bounds r2.Box, depth int) int {
	t.nodes = append(t.nodes, quadNode{
		Node:     *tree.NewNode(nil),
		bounds:   bounds,
		children: [4]int{noNode, noNode, noNode, noNode},
		depth:    depth,
	})
	return len(t.nodes) - 1
}

// inserts p in the subtree rooted at i, returns false if p lies outside of the node bounds.
// Nodes are addressed by index since inserting may grow the arena.
func (t *QuadTree) insert(p *data.Point, i int) bool {
	if !t.nodes[i].bounds.Contains(r2.Vec{X: p.X, Y: p.Y}) {
		return false
	}

	if !t.nodes[i].filled {
		t.nodes[i].SetPoint(p)
		t.nodes[i].filled = true
		return true
	}

	if t.nodes[i].depth >= t.maxDepth {
		t.nodes[i].AddCoincident(p)
		return true
	}

	if evicted := t.nodes[i].Point(); evicted != nil {
		t.nodes[i].SetPoint(nil)
		t.insert(evicted, t.root)
	}

	q := quadrantOf(t.nodes[i].bounds, p)
	child := t.nodes[i].children[q]
	if child == noNode {
		child = t.newNode(geometry.Quadrants(t.nodes[i].bounds)[q], t.nodes[i].depth+1)
		t.nodes[i].children[q] = child
	}
	return t.insert(p, child)
}

// points on the split lines belong to the top and left quadrants
func quadrantOf(bounds r2.Box, p *data.Point) int {
	c := bounds.Center()
	if p.Y <= c.Y {
		if p.X <= c.X {
			return TopLeft
		}
		return TopRight
	}
	if p.X <= c.X {
		return BottomLeft
	}
	return BottomRight
}

func (t *QuadTree) aggregate(i int) {
	n := &t.nodes[i]
	children := make([]*tree.Node, 0, 4)
	for _, c := range n.children {
		if c != noNode {
			t.aggregate(c)
			children = append(children, &t.nodes[c].Node)
		}
	}
	n.Aggregate(t.colorMode, children...)
}

// Returns the point stored in the leaf containing (x, y), nil if there is none
func (t *QuadTree) Search(x, y float64) *data.Point {
	i := t.root
	p := &data.Point{X: x, Y: y}
	for i != noNode {
		n := &t.nodes[i]
		if !n.bounds.Contains(r2.Vec{X: x, Y: y}) {
			return nil
		}
		if n.Point() != nil {
			return n.Point()
		}
		i = n.children[quadrantOf(n.bounds, p)]
	}
	return nil
}

func (t *QuadTree) node(i int) *tree.Node {
	if i == noNode {
		return nil
	}
	return &t.nodes[i].Node
}

func (t *QuadTree) Root() *tree.Node {
	return t.node(t.root)
}

func (t *QuadTree) IsBuilt() bool {
	return t.built
}

// Number of points of the last build that fell outside of the domain
func (t *QuadTree) Skipped() int {
	return t.skipped
}

// Children of the node in quadrant order, nil entries for empty quadrants
func (t *QuadTree) Children(n *tree.Node) [4]*tree.Node {
	var children [4]*tree.Node
	if i := t.indexOf(n); i != noNode {
		for q, c := range t.nodes[i].children {
			children[q] = t.node(c)
		}
	}
	return children
}

// Bounds of the node quadrant
func (t *QuadTree) Bounds(n *tree.Node) r2.Box {
	if i := t.indexOf(n); i != noNode {
		return t.nodes[i].bounds
	}
	return r2.Box{}
}

func (t *QuadTree) indexOf(n *tree.Node) int {
	for i := range t.nodes {
		if &t.nodes[i].Node == n {
			return i
		}
	}
	return noNode
}

func (t *QuadTree) Traverse() []*tree.Node {
	nodes := make([]*tree.Node, 0, len(t.nodes))
	t.walk(t.root, func(i int) { nodes = append(nodes, &t.nodes[i].Node) })
	return nodes
}

func (t *QuadTree) walk(i int, visit func(i int)) {
	if i == noNode {
		return
	}
	visit(i)
	for _, c := range t.nodes[i].children {
		t.walk(c, visit)
	}
}

func (t *QuadTree) Reset() {
	for i := range t.nodes {
		t.nodes[i].ResetPath()
	}
}

func (t *QuadTree) resetSubtree(i int) {
	t.walk(i, func(j int) { t.nodes[j].ResetPath() })
}

// Carves the clip along the quadrant rectangles. Quadrants that are not expanded are kept by the
// node both as separate child paths and merged into its own path.
func (t *QuadTree) Carve(clip *geometry.Polygon, opts tree.CarveOptions) (*tree.Carving, error) {
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
	t.carve(t.root, clip, 0, opts.Normalized())
	return tree.Collect(t.Traverse()), nil
}

func (t *QuadTree) carve(i int, clip *geometry.Polygon, level int, opts tree.CarveOptions) {
	n := &t.nodes[i]
	n.SetLevel(level)

	quadrants := geometry.Quadrants(n.bounds)
	path := geometry.Rect(n.bounds)
	for q, c := range n.children {
		if c != noNode && opts.ShouldExpand(&t.nodes[c].Node, level) {
			t.carve(c, clip, level+1, opts)
			if !opts.IsBelowMinArea(&t.nodes[c].Node) {
				path = path.Subtract(geometry.Rect(quadrants[q]))
				continue
			}
			t.resetSubtree(c)
		}
		n.AddChildPath(geometry.Rect(quadrants[q]).Intersect(clip))
	}
	n.SetPath(path.Intersect(clip))
}
