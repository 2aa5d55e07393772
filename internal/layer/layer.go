package layer

import (
	"fmt"

	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/spatial/r2"
)

// A layer keeps the points whose criteria channel falls in its range and carves them inside the
// canvas area that earlier layers did not claim
type Layer struct {
	options *tiler.LayerOptions
	points  []*data.Point
	maxLod  float64
	areas   *geometry.Polygon
	prev    *Layer
}

func NewLayer(options *tiler.LayerOptions) *Layer {
	l := &Layer{
		options: options,
		points:  make([]*data.Point, 0),
		areas:   &geometry.Polygon{},
	}
	for _, area := range options.Areas {
		ring := make([]r2.Vec, len(area))
		for i, v := range area {
			ring[i] = r2.Vec{X: v[0], Y: v[1]}
		}
		l.AddArea(ring)
	}
	return l
}

// Builds the layers of the given options, each one linked to the one before
func NewStack(options []*tiler.LayerOptions) []*Layer {
	layers := make([]*Layer, len(options))
	for i, o := range options {
		layers[i] = NewLayer(o)
		if i > 0 {
			layers[i].prev = layers[i-1]
		}
	}
	return layers
}

func (l *Layer) Options() *tiler.LayerOptions {
	return l.options
}

func (l *Layer) Points() []*data.Point {
	return l.points
}

// Highest lod among the kept points
func (l *Layer) MaxLod() float64 {
	return l.maxLod
}

// Area claimed by the layer, empty when the layer takes whatever earlier layers left
func (l *Layer) Areas() *geometry.Polygon {
	return l.areas
}

// Claims one more ring, rings may overlap
func (l *Layer) AddArea(ring []r2.Vec) {
	l.areas = l.areas.Union(geometry.NewPolygon(ring))
}

func (l *Layer) Prev() *Layer {
	return l.prev
}

// Keeps copies of the points whose criteria value lies in [from, to]
func (l *Layer) SetPoints(points []*data.Point) {
	l.points = make([]*data.Point, 0, len(points))
	l.maxLod = 0
	for _, p := range points {
		if !l.IsValidPoint(p) {
			continue
		}
		l.points = append(l.points, p.Clone())
		if p.LOD > l.maxLod {
			l.maxLod = p.LOD
		}
	}
}

func (l *Layer) IsValidPoint(p *data.Point) bool {
	if p == nil {
		return false
	}
	v, ok := p.Channel(string(l.options.Criteria))
	return ok && l.options.From <= v && v <= l.options.To
}

// Canvas grown by border on every side, minus the areas of every earlier layer. When the layer has
// areas of its own the clip is further restricted to them.
func (l *Layer) ClipPath(width, height, border float64) *geometry.Polygon {
	clip := geometry.Rect(geometry.Grow(r2.NewBox(0, 0, width, height), border))
	for prev := l.prev; prev != nil; prev = prev.prev {
		clip = clip.Subtract(prev.areas)
	}
	if !l.areas.IsEmpty() {
		clip = clip.Intersect(l.areas)
	}
	return clip
}

// Builds the given tree over the layer points and carves it inside the layer clip
func (l *Layer) Build(t tree.ITree, width, height, border float64) (*tree.Carving, error) {
	glog.Infof("layer %s: building over %d points", l.options, len(l.points))
	if err := t.BuildFrom(l.points, width, height, l.options.ColorMode); err != nil {
		return nil, fmt.Errorf("building layer %s: %w", l.options, err)
	}
	carving, err := t.Carve(l.ClipPath(width, height, border), l.options.CarveOptions())
	if err != nil {
		return nil, fmt.Errorf("carving layer %s: %w", l.options, err)
	}
	glog.Infof("layer %s: %d regions, levels %d-%d", l.options, len(carving.Regions), carving.MinLevel, carving.MaxLevel)
	return carving, nil
}
