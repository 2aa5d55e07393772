package mesh

import (
	"github.com/ecopia-map/vector_tiler/internal/converters"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/fogleman/delaunay"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/spatial/r2"
)

// Turns carved regions into colored triangles placed at the depth of their node
type Builder struct {
	converter converters.CoordinateConverter
	corrector converters.ElevationCorrector
	extrude   bool
}

// When extrude is set every region also gets walls down to the elevation of depth zero
func NewBuilder(converter converters.CoordinateConverter, corrector converters.ElevationCorrector, extrude bool) *Builder {
	return &Builder{
		converter: converter,
		corrector: corrector,
		extrude:   extrude,
	}
}

// Mesh of a single region. Regions carrying separate pieces of their polygon are
// triangulated piece by piece.
func (b *Builder) Region(region tree.Region) *Mesh {
	pieces := region.Shapes()
	depth := region.Node.MeanDepth()

	m := NewMesh()
	for _, piece := range pieces {
		b.triangulate(m, piece, depth, region)
		if b.extrude {
			b.walls(m, piece, depth, region)
		}
	}
	return m
}

// Delaunay triangulation of the contour vertices, restricted to the triangles whose centroid
// lies inside the polygon
func (b *Builder) triangulate(m *Mesh, polygon *geometry.Polygon, depth float64, region tree.Region) {
	points := make([]delaunay.Point, 0, polygon.NumVertices())
	for _, contour := range polygon.Contours() {
		for _, v := range contour {
			points = append(points, delaunay.Point{X: v.X, Y: v.Y})
		}
	}
	if len(points) < 3 {
		return
	}

	triangulation, err := delaunay.Triangulate(points)
	if err != nil {
		glog.V(2).Infof("skipping degenerate piece of region at level %d: %v", region.Level, err)
		return
	}

	indices := make(map[int]uint32)
	vertex := func(i int) uint32 {
		if index, ok := indices[i]; ok {
			return index
		}
		p := triangulation.Points[i]
		index := b.vertex(m, p.X, p.Y, depth, region)
		indices[i] = index
		return index
	}

	ts := triangulation.Triangles
	for i := 0; i+2 < len(ts); i += 3 {
		p0, p1, p2 := triangulation.Points[ts[i]], triangulation.Points[ts[i+1]], triangulation.Points[ts[i+2]]
		centroid := r2.Vec{X: (p0.X + p1.X + p2.X) / 3, Y: (p0.Y + p1.Y + p2.Y) / 3}
		if !polygon.Contains(centroid) {
			continue
		}
		m.AddTriangle(vertex(ts[i]), vertex(ts[i+1]), vertex(ts[i+2]))
	}
}

// Quads from every contour edge down to depth zero
func (b *Builder) walls(m *Mesh, polygon *geometry.Polygon, depth float64, region tree.Region) {
	for _, contour := range polygon.Contours() {
		for i := range contour {
			from, to := contour[i], contour[(i+1)%len(contour)]
			top0 := b.vertex(m, from.X, from.Y, depth, region)
			top1 := b.vertex(m, to.X, to.Y, depth, region)
			bottom0 := b.vertex(m, from.X, from.Y, 0, region)
			bottom1 := b.vertex(m, to.X, to.Y, 0, region)
			m.AddTriangle(top0, top1, bottom1)
			m.AddTriangle(top0, bottom1, bottom0)
		}
	}
}

func (b *Builder) vertex(m *Mesh, x, y, depth float64, region tree.Region) uint32 {
	mx, my := b.converter.ConvertToMesh(x, y)
	z := b.corrector.CorrectElevation(x, y, depth)
	c := region.Color.Clamped()
	return m.AddVertex(mx, my, z, c.R, c.G, c.B)
}
