package vp_tree

import (
	"container/heap"
	"math"
	"sort"

	"github.com/ecopia-map/vector_tiler/internal/tree"
)

// Node found by a nearest neighbour query together with its distance to the target
type Neighbor struct {
	Node     *tree.Node
	Distance float64
}

// max-heap on distance, the worst of the current best candidates is on top
type neighborHeap []Neighbor

func (h neighborHeap) Len() int            { return len(h) }
func (h neighborHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(Neighbor)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Returns up to k nodes nearest to (x, y), sorted by ascending distance
func (t *VPTree) FindKnn(x, y float64, k int) []Neighbor {
	if k <= 0 || t.root == noNode {
		return nil
	}
	s := &knnSearch{
		tree:    t,
		x:       x,
		y:       y,
		k:       k,
		maxDist: math.Inf(1),
		queue:   make(neighborHeap, 0, k),
	}
	s.search(t.root)

	result := make([]Neighbor, len(s.queue))
	copy(result, s.queue)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Distance < result[j].Distance })
	return result
}

type knnSearch struct {
	tree    *VPTree
	x, y    float64
	k       int
	maxDist float64
	queue   neighborHeap
}

func (s *knnSearch) search(i int) {
	if i == noNode {
		return
	}
	n := &s.tree.nodes[i]
	if n.Point() == nil {
		return
	}

	dist := n.Point().DistToPoint(s.x, s.y)
	if dist < s.maxDist {
		if s.queue.Len() == s.k {
			heap.Pop(&s.queue)
		}
		heap.Push(&s.queue, Neighbor{Node: &n.Node, Distance: dist})
		if s.queue.Len() == s.k {
			s.maxDist = s.queue[0].Distance
		}
	}
	if n.left == noNode && n.right == noNode {
		return
	}

	// closer partition first, the other one only if the ball of radius maxDist crosses the threshold
	if dist < n.threshold {
		if dist-s.maxDist < n.threshold {
			s.search(n.left)
		}
		if dist+s.maxDist >= n.threshold {
			s.search(n.right)
		}
	} else {
		if dist+s.maxDist >= n.threshold {
			s.search(n.right)
		}
		if dist-s.maxDist < n.threshold {
			s.search(n.left)
		}
	}
}
