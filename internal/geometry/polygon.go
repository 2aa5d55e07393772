package geometry

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// Number of segments used to approximate a circle when building discs
const DefaultDiscSegments = 64

// Area below which a boolean operation result is considered degenerate
const areaEpsilon = 1e-9

// Planar polygon made of one or more closed contours, interpreted with the even-odd rule.
// A nil *Polygon is a valid empty polygon for every method below.
type Polygon struct {
	contours polyclip.Polygon
}

// Builds a polygon from the given closed rings. Rings with less than three vertices are skipped.
func NewPolygon(rings ...[]r2.Vec) *Polygon {
	p := &Polygon{}
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		contour := make(polyclip.Contour, 0, len(ring))
		for _, v := range ring {
			contour = append(contour, polyclip.Point{X: v.X, Y: v.Y})
		}
		p.contours = append(p.contours, contour)
	}
	return p
}

// Axis aligned rectangle covering the given box
func Rect(box r2.Box) *Polygon {
	if box.Empty() {
		return &Polygon{}
	}
	return NewPolygon(box.Vertices())
}

// Regular polygon approximating the disc of given center and radius
func Disc(center r2.Vec, radius float64, segments int) *Polygon {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return &Polygon{}
	}
	if segments < 3 {
		segments = DefaultDiscSegments
	}
	ring := make([]r2.Vec, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		ring[i] = r2.Add(center, r2.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return NewPolygon(ring)
}

func (p *Polygon) IsEmpty() bool {
	return p == nil || len(p.contours) == 0 || p.Area() < areaEpsilon
}

func (p *Polygon) Intersect(other *Polygon) *Polygon {
	if p.IsEmpty() || other.IsEmpty() {
		return &Polygon{}
	}
	return p.construct(polyclip.INTERSECTION, other)
}

func (p *Polygon) Subtract(other *Polygon) *Polygon {
	if p.IsEmpty() {
		return &Polygon{}
	}
	if other.IsEmpty() {
		return p.Clone()
	}
	return p.construct(polyclip.DIFFERENCE, other)
}

func (p *Polygon) Union(other *Polygon) *Polygon {
	if p.IsEmpty() {
		return other.Clone()
	}
	if other.IsEmpty() {
		return p.Clone()
	}
	return p.construct(polyclip.UNION, other)
}

func (p *Polygon) construct(op polyclip.Op, other *Polygon) *Polygon {
	result := &Polygon{contours: p.contours.Construct(op, other.contours)}
	if result.Area() < areaEpsilon {
		return &Polygon{}
	}
	return result
}

func (p *Polygon) Clone() *Polygon {
	if p == nil {
		return &Polygon{}
	}
	return &Polygon{contours: p.contours.Clone()}
}

// Area with the even-odd rule: contours nested an odd number of times are holes
func (p *Polygon) Area() float64 {
	if p == nil {
		return 0
	}
	area := 0.0
	for i, contour := range p.contours {
		a := math.Abs(ringArea(contour))
		if a == 0 {
			continue
		}
		if p.nestingDepth(i)%2 == 1 {
			area -= a
		} else {
			area += a
		}
	}
	return math.Max(area, 0)
}

// number of other contours enclosing contour i, probed at the midpoint of its first edge
func (p *Polygon) nestingDepth(i int) int {
	contour := p.contours[i]
	probe := polyclip.Point{
		X: (contour[0].X + contour[1].X) / 2,
		Y: (contour[0].Y + contour[1].Y) / 2,
	}
	depth := 0
	for j, other := range p.contours {
		if j != i && other.Contains(probe) {
			depth++
		}
	}
	return depth
}

// Even-odd point containment
func (p *Polygon) Contains(v r2.Vec) bool {
	if p == nil {
		return false
	}
	inside := false
	probe := polyclip.Point{X: v.X, Y: v.Y}
	for _, contour := range p.contours {
		if contour.Contains(probe) {
			inside = !inside
		}
	}
	return inside
}

func (p *Polygon) Bounds() r2.Box {
	if p == nil || len(p.contours) == 0 {
		return r2.Box{}
	}
	bb := p.contours.BoundingBox()
	return r2.NewBox(bb.Min.X, bb.Min.Y, bb.Max.X, bb.Max.Y)
}

// Returns a copy of the contour rings
func (p *Polygon) Contours() [][]r2.Vec {
	if p == nil {
		return nil
	}
	rings := make([][]r2.Vec, 0, len(p.contours))
	for _, contour := range p.contours {
		ring := make([]r2.Vec, len(contour))
		for i, pt := range contour {
			ring[i] = r2.Vec{X: pt.X, Y: pt.Y}
		}
		rings = append(rings, ring)
	}
	return rings
}

// Total number of vertices across all contours
func (p *Polygon) NumVertices() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, contour := range p.contours {
		n += len(contour)
	}
	return n
}

// Union of all the given polygons, nil entries are ignored
func UnionAll(polygons ...*Polygon) *Polygon {
	result := &Polygon{}
	for _, polygon := range polygons {
		result = result.Union(polygon)
	}
	return result
}

// shoelace formula, signed
func ringArea(ring polyclip.Contour) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}
