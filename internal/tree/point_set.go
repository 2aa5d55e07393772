package tree

import "github.com/ecopia-map/vector_tiler/internal/data"

// Set of points with union semantics that iterates in insertion order, so that
// color aggregation is reproducible across builds
type PointSet struct {
	order []*data.Point
	index map[*data.Point]struct{}
}

func NewPointSet() *PointSet {
	return &PointSet{
		order: make([]*data.Point, 0),
		index: make(map[*data.Point]struct{}),
	}
}

// Adds the point to the set, returns false if it was already present or nil
func (s *PointSet) Add(p *data.Point) bool {
	if p == nil {
		return false
	}
	if _, ok := s.index[p]; ok {
		return false
	}
	s.index[p] = struct{}{}
	s.order = append(s.order, p)
	return true
}

func (s *PointSet) Merge(other *PointSet) {
	if other == nil {
		return
	}
	for _, p := range other.order {
		s.Add(p)
	}
}

func (s *PointSet) Contains(p *data.Point) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[p]
	return ok
}

func (s *PointSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Points in insertion order. The returned slice must not be modified.
func (s *PointSet) Points() []*data.Point {
	if s == nil {
		return nil
	}
	return s.order
}
