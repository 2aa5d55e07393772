package vp_tree

import (
	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

const noNode = -1

// Vantage-point tree. Nodes live in an arena and reference each other by index.
type VPTree struct {
	seed      string
	rng       *rand.Rand
	colorMode tree.ColorMode
	width     float64
	height    float64
	points    []*data.Point
	distances []float64
	nodes     []vpNode
	root      int
	built     bool
}

type vpNode struct {
	tree.Node
	threshold   float64 // median distance from the vantage point to the points below
	parent      int
	left        int // points closer than threshold
	right       int // points at threshold or farther
	isLeftChild bool
}

// Instantiates a new empty VPTree whose random choices are driven by the given seed
func NewVPTree(seed string) *VPTree {
	return &VPTree{
		seed: seed,
		root: noNode,
	}
}

func (t *VPTree) BuildFrom(points []*data.Point, width, height float64, mode tree.ColorMode) error {
	if err := tree.CheckInput(points, width, height); err != nil {
		return err
	}

	t.rng = tree.NewRandom(t.seed)
	t.colorMode = mode
	t.width = width
	t.height = height
	t.points = points
	t.distances = make([]float64, len(points))
	t.nodes = make([]vpNode, 0, len(points))

	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(idx)
	if t.root != noNode {
		t.aggregate(t.root)
	}
	t.distances = nil
	t.built = true
	return nil
}

// builds the subtree over idx, partitioning the slice in place
func (t *VPTree) build(idx []int) int {
	if len(idx) == 0 {
		return noNode
	}

	pick := t.rng.Intn(len(idx))
	idx[0], idx[pick] = idx[pick], idx[0]
	vp := t.points[idx[0]]
	rest := idx[1:]

	current := len(t.nodes)
	t.nodes = append(t.nodes, vpNode{
		Node:   *tree.NewNode(vp),
		parent: noNode,
		left:   noNode,
		right:  noNode,
	})
	if len(rest) == 0 {
		return current
	}

	for _, i := range rest {
		t.distances[i] = vp.Dist(t.points[i])
	}
	distance := func(i int) float64 { return t.distances[i] }
	median := len(rest) / 2
	tree.Select(rest, median, distance, t.rng)
	threshold := t.distances[rest[median]]
	n := tree.Partition(rest, func(i int) bool { return t.distances[i] < threshold })

	left := t.build(rest[:n])
	right := t.build(rest[n:])

	t.nodes[current].threshold = threshold
	t.nodes[current].left = left
	t.nodes[current].right = right
	if left != noNode {
		t.nodes[left].parent = current
		t.nodes[left].isLeftChild = true
	}
	if right != noNode {
		t.nodes[right].parent = current
		t.nodes[right].isLeftChild = false
	}
	return current
}

func (t *VPTree) aggregate(i int) {
	n := &t.nodes[i]
	if n.left != noNode {
		t.aggregate(n.left)
	}
	if n.right != noNode {
		t.aggregate(n.right)
	}
	n.Aggregate(t.colorMode, t.node(n.left), t.node(n.right))
}

func (t *VPTree) node(i int) *tree.Node {
	if i == noNode {
		return nil
	}
	return &t.nodes[i].Node
}

func (t *VPTree) Root() *tree.Node {
	return t.node(t.root)
}

func (t *VPTree) IsBuilt() bool {
	return t.built
}

// Threshold of the node, 0 for leaves
func (t *VPTree) Threshold(n *tree.Node) float64 {
	if i := t.indexOf(n); i != noNode {
		return t.nodes[i].threshold
	}
	return 0
}

// Left and right children of the node, nil when absent
func (t *VPTree) Children(n *tree.Node) (left, right *tree.Node) {
	if i := t.indexOf(n); i != noNode {
		return t.node(t.nodes[i].left), t.node(t.nodes[i].right)
	}
	return nil, nil
}

// Parent of the node and whether the node is its left child
func (t *VPTree) Parent(n *tree.Node) (*tree.Node, bool) {
	if i := t.indexOf(n); i != noNode {
		return t.node(t.nodes[i].parent), t.nodes[i].isLeftChild
	}
	return nil, false
}

func (t *VPTree) indexOf(n *tree.Node) int {
	for i := range t.nodes {
		if &t.nodes[i].Node == n {
			return i
		}
	}
	return noNode
}

func (t *VPTree) Traverse() []*tree.Node {
	nodes := make([]*tree.Node, 0, len(t.nodes))
	t.walk(t.root, func(i int) { nodes = append(nodes, &t.nodes[i].Node) })
	return nodes
}

// pre-order visit of the subtree rooted at i
func (t *VPTree) walk(i int, visit func(i int)) {
	if i == noNode {
		return
	}
	visit(i)
	t.walk(t.nodes[i].left, visit)
	t.walk(t.nodes[i].right, visit)
}

func (t *VPTree) Reset() {
	for i := range t.nodes {
		t.nodes[i].ResetPath()
	}
}

func (t *VPTree) resetSubtree(i int) {
	t.walk(i, func(j int) { t.nodes[j].ResetPath() })
}

// Carves the clip with discs centered on the vantage points: the part of a node region inside the
// disc goes to the left child, the rest to the right child.
func (t *VPTree) Carve(clip *geometry.Polygon, opts tree.CarveOptions) (*tree.Carving, error) {
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

func (t *VPTree) carve(i int, region *geometry.Polygon, level int, opts tree.CarveOptions) {
	n := &t.nodes[i]
	if n.Point() == nil {
		return
	}
	n.SetLevel(level)

	center := r2.Vec{X: n.Point().X, Y: n.Point().Y}
	inside := region.Intersect(geometry.Disc(center, n.threshold, geometry.DefaultDiscSegments))
	outside := region.Subtract(inside)

	leftExpanded := t.expand(n.left, inside, level, opts)
	rightExpanded := t.expand(n.right, outside, level, opts)

	switch {
	case !leftExpanded && !rightExpanded:
		n.SetPath(region)
	case !leftExpanded:
		n.SetPath(inside)
	case !rightExpanded:
		n.SetPath(outside)
	default:
		n.SetPath(nil)
	}
}

// carves the child against its region if its lod allows, reports whether it stayed expanded
func (t *VPTree) expand(child int, region *geometry.Polygon, level int, opts tree.CarveOptions) bool {
	if child == noNode || !opts.ShouldExpand(&t.nodes[child].Node, level) {
		return false
	}
	t.carve(child, region, level+1, opts)
	if opts.IsBelowMinArea(&t.nodes[child].Node) {
		t.resetSubtree(child)
		return false
	}
	return true
}
