package mesh

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/ecopia-map/vector_tiler/internal/converters/canvas_coordinate_converter"
	"github.com/ecopia-map/vector_tiler/internal/converters/elevation/offset_elevation_corrector"
	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func ring(x0, y0, x1, y1 float64) []r2.Vec {
	return []r2.Vec{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func region(poly *geometry.Polygon, depth float64) tree.Region {
	red := colorful.Color{R: 1}
	n := tree.NewNode(data.NewPoint(1, 1, 10, red, depth, 0, 0, 0, [3]uint8{}))
	n.Aggregate(tree.ColorModePoint)
	n.SetPath(poly)
	return tree.Region{Polygon: poly, Color: red, Node: n}
}

func newBuilder(extrude bool) *Builder {
	return NewBuilder(
		canvas_coordinate_converter.NewCanvasCoordinateConverter(10, 10),
		offset_elevation_corrector.NewOffsetElevationCorrector(0),
		extrude,
	)
}

// Area of the triangles projected on the xy plane
func projectedArea(m *Mesh) float64 {
	area := 0.0
	for i := 0; i < m.NumTriangles(); i++ {
		var xs, ys [3]float64
		for k := 0; k < 3; k++ {
			v := m.Indices[3*i+k]
			xs[k], ys[k] = float64(m.Positions[3*v]), float64(m.Positions[3*v+1])
		}
		area += math.Abs((xs[1]-xs[0])*(ys[2]-ys[0])-(xs[2]-xs[0])*(ys[1]-ys[0])) / 2
	}
	return area
}

func TestRegionMesh(t *testing.T) {
	t.Run("square", func(t *testing.T) {
		m := newBuilder(false).Region(region(geometry.NewPolygon(ring(0, 0, 10, 10)), 255))
		require.Equal(t, 4, m.NumVertices())
		require.Equal(t, 2, m.NumTriangles())
		require.InDelta(t, 4, projectedArea(m), 1e-6)
		for i := 0; i < m.NumVertices(); i++ {
			require.InDelta(t, 1, math.Abs(float64(m.Positions[3*i])), 1e-6)
			require.InDelta(t, 0.5, float64(m.Positions[3*i+2]), 1e-6)
			require.Equal(t, []float32{1, 0, 0}, m.Colors[3*i:3*i+3])
		}
	})

	t.Run("hole", func(t *testing.T) {
		poly := geometry.NewPolygon(ring(0, 0, 10, 10), ring(2, 2, 8, 8))
		m := newBuilder(false).Region(region(poly, 0))
		require.InDelta(t, 64.0/25, projectedArea(m), 1e-6)
	})

	t.Run("pieces", func(t *testing.T) {
		r := region(geometry.NewPolygon(ring(0, 0, 10, 10)), 0)
		r.Pieces = []*geometry.Polygon{
			geometry.NewPolygon(ring(0, 0, 5, 5)),
			geometry.NewPolygon(ring(5, 5, 10, 10)),
		}
		m := newBuilder(false).Region(r)
		require.Equal(t, 4, m.NumTriangles())
		require.InDelta(t, 2, projectedArea(m), 1e-6)
	})

	t.Run("extruded", func(t *testing.T) {
		m := newBuilder(true).Region(region(geometry.NewPolygon(ring(0, 0, 10, 10)), 255))
		require.Equal(t, 2+8, m.NumTriangles())
		require.Equal(t, 4+16, m.NumVertices())
		require.Equal(t, float32(-0.5), m.Positions[len(m.Positions)-1])
	})

	t.Run("degenerate", func(t *testing.T) {
		poly := geometry.NewPolygon([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}})
		m := newBuilder(false).Region(region(poly, 0))
		require.Zero(t, m.NumTriangles())
	})
}

func TestAppend(t *testing.T) {
	a := NewMesh()
	a.AddTriangle(a.AddVertex(0, 0, 0, 1, 1, 1), a.AddVertex(1, 0, 0, 1, 1, 1), a.AddVertex(0, 1, 0, 1, 1, 1))
	b := NewMesh()
	b.AddTriangle(b.AddVertex(0, 0, 1, 0, 0, 0), b.AddVertex(1, 0, 1, 0, 0, 0), b.AddVertex(0, 1, 1, 0, 0, 0))

	a.Append(b)
	a.Append(nil)
	require.Equal(t, 6, a.NumVertices())
	require.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, a.Indices)
}

func TestWritePly(t *testing.T) {
	m := NewMesh()
	m.AddTriangle(m.AddVertex(0, 0, 0, 1, 0, 0), m.AddVertex(1, 0, 0, 0, 1, 0), m.AddVertex(0, 1, 0.5, 0, 0, 1))

	var buf bytes.Buffer
	require.NoError(t, WritePly(&buf, m))

	content := buf.String()
	end := strings.Index(content, "end_header\n") + len("end_header\n")
	header := content[:end]
	require.Contains(t, header, "format binary_little_endian 1.0\n")
	require.Contains(t, header, "element vertex 3\n")
	require.Contains(t, header, "element face 1\n")
	require.Equal(t, end+3*(12+3)+(1+12), buf.Len())

	body := buf.Bytes()[end:]
	require.Equal(t, []byte{255, 0, 0}, body[12:15])
	require.Equal(t, uint8(3), body[3*15])
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(body[3*15+9:]))
	require.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(body[2*15+8:])))
}
