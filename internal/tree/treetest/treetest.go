// Package treetest provides point generators and property checks shared by the tree variant tests.
package treetest

import (
	"testing"

	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// Point with the given position, lod and color, other channels zeroed
func NewPoint(x, y, lod float64, c colorful.Color) *data.Point {
	return data.NewPoint(x, y, lod, c, 0, 0, 0, 0, [3]uint8{})
}

// n points uniformly distributed over the canvas with random lod and color
func UniformPoints(n int, width, height float64, seed uint64) []*data.Point {
	rng := rand.New(rand.NewSource(seed))
	points := make([]*data.Point, n)
	for i := range points {
		c := colorful.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
		p := NewPoint(rng.Float64()*width, rng.Float64()*height, rng.Float64()*255, c)
		p.Depth = rng.Float64() * 255
		points[i] = p
	}
	return points
}

// Checks that the root counts every input point once
func RequireCount(t *testing.T, tr tree.ITree, expected int) {
	t.Helper()
	require.NotNil(t, tr.Root())
	require.Equal(t, expected, tr.Root().NumberOfPoints())
	require.Equal(t, expected, tr.Root().Subpoints().Len())
}

// Checks that the subpoints of every node are its own points plus the subpoints of the given children
func RequireSubpointsClosure(t *testing.T, n *tree.Node, children ...*tree.Node) {
	t.Helper()
	expected := tree.NewPointSet()
	expected.Add(n.Point())
	for _, p := range n.Coincident() {
		expected.Add(p)
	}
	for _, c := range children {
		if c != nil {
			expected.Merge(c.Subpoints())
		}
	}
	require.Equal(t, expected.Len(), n.Subpoints().Len())
	require.Equal(t, n.NumberOfPoints(), n.Subpoints().Len())
	for _, p := range expected.Points() {
		require.True(t, n.Subpoints().Contains(p))
	}
}

// Checks that the regions cover the expected area without overlapping each other
func RequirePartition(t *testing.T, carving *tree.Carving, covered *geometry.Polygon) {
	t.Helper()
	tolerance := 1e-6 * (1 + covered.Area())

	// inside the covered area, summing up to it and pairwise disjoint means the union is the covered area
	for _, region := range carving.Regions {
		require.False(t, region.Polygon.IsEmpty())
		require.InDelta(t, 0, region.Polygon.Subtract(covered).Area(), tolerance)
	}
	require.InDelta(t, covered.Area(), carving.Area(), tolerance)

	for i := range carving.Regions {
		for j := i + 1; j < len(carving.Regions); j++ {
			overlap := carving.Regions[i].Polygon.Intersect(carving.Regions[j].Polygon).Area()
			require.InDelta(t, 0, overlap, tolerance)
		}
	}
}

// Checks that every region apart from a lone root fallback is at least minArea wide
func RequireMinArea(t *testing.T, carving *tree.Carving, root *tree.Node, minArea float64) {
	t.Helper()
	for _, region := range carving.Regions {
		if region.Node == root {
			continue
		}
		require.GreaterOrEqual(t, region.Polygon.Area(), minArea)
	}
}

// Checks that two carvings hold identical polygons, colors and levels in the same order
func RequireSameCarving(t *testing.T, a, b *tree.Carving) {
	t.Helper()
	require.Equal(t, a.MinLevel, b.MinLevel)
	require.Equal(t, a.MaxLevel, b.MaxLevel)
	require.Len(t, b.Regions, len(a.Regions))
	for i := range a.Regions {
		require.Equal(t, a.Regions[i].Color, b.Regions[i].Color)
		require.Equal(t, a.Regions[i].Level, b.Regions[i].Level)
		require.Equal(t, a.Regions[i].Polygon.Contours(), b.Regions[i].Polygon.Contours())
	}
}

// Checks the carving collapsed into a single region equal to the clip
func RequireSingleRegion(t *testing.T, carving *tree.Carving, clip *geometry.Polygon) {
	t.Helper()
	require.Len(t, carving.Regions, 1)
	require.Zero(t, carving.Regions[0].Level)
	require.InDelta(t, clip.Area(), carving.Regions[0].Polygon.Area(), 1e-6)
	require.InDelta(t, 0, carving.Regions[0].Polygon.Subtract(clip).Area(), 1e-6)
}
