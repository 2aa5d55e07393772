package quad_tree

import (
	"testing"

	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/internal/tree/treetest"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func buildTree(t *testing.T, points []*data.Point, width, height float64, mode tree.ColorMode) *QuadTree {
	t.Helper()
	qt := NewQuadTree(0)
	require.NoError(t, qt.BuildFrom(points, width, height, mode))
	return qt
}

func TestBuildEmpty(t *testing.T) {
	qt := buildTree(t, []*data.Point{}, 10, 10, tree.ColorModeMedian)
	require.True(t, qt.IsBuilt())
	require.Nil(t, qt.Root())
	require.Empty(t, qt.Traverse())
	require.Nil(t, qt.Search(1, 1))

	carving, err := qt.Carve(nil, tree.CarveOptions{MaxLevel: 3})
	require.NoError(t, err)
	require.Empty(t, carving.Regions)
}

func TestBuildErrors(t *testing.T) {
	t.Run("nil point", func(t *testing.T) {
		err := NewQuadTree(0).BuildFrom([]*data.Point{nil}, 10, 10, tree.ColorModeMedian)
		require.ErrorIs(t, err, tree.ErrNilPoint)
	})

	t.Run("invalid canvas", func(t *testing.T) {
		p := treetest.NewPoint(0, 0, 1, colorful.Color{})
		err := NewQuadTree(0).BuildFrom([]*data.Point{p}, 0, 10, tree.ColorModeMedian)
		require.ErrorIs(t, err, tree.ErrInvalidCanvas)
	})
}

func TestFourCorners(t *testing.T) {
	colors := []colorful.Color{{R: 1}, {G: 1}, {B: 1}, {R: 1, G: 1}}
	points := []*data.Point{
		treetest.NewPoint(0, 0, 255, colors[0]),
		treetest.NewPoint(0, 10, 255, colors[1]),
		treetest.NewPoint(10, 0, 255, colors[2]),
		treetest.NewPoint(10, 10, 255, colors[3]),
	}

	for _, mode := range []tree.ColorMode{tree.ColorModeMedian, tree.ColorModePoint} {
		t.Run(string(mode), func(t *testing.T) {
			qt := buildTree(t, points, 10, 10, mode)
			treetest.RequireCount(t, qt, 4)

			children := qt.Children(qt.Root())
			require.Equal(t, points[0], children[TopLeft].Point())
			require.Equal(t, points[2], children[TopRight].Point())
			require.Equal(t, points[1], children[BottomLeft].Point())
			require.Equal(t, points[3], children[BottomRight].Point())

			carving, err := qt.Carve(nil, tree.CarveOptions{MaxLevel: 1, MinArea: 0})
			require.NoError(t, err)
			require.Len(t, carving.Regions, 4)
			require.Equal(t, 1, carving.MinLevel)
			require.Equal(t, 1, carving.MaxLevel)

			expected := []struct {
				box   r2.Box
				color colorful.Color
			}{
				{r2.NewBox(0, 0, 5, 5), colors[0]},
				{r2.NewBox(5, 0, 10, 5), colors[2]},
				{r2.NewBox(0, 5, 5, 10), colors[1]},
				{r2.NewBox(5, 5, 10, 10), colors[3]},
			}
			for i, region := range carving.Regions {
				require.Equal(t, expected[i].color, region.Color)
				require.Equal(t, 1, region.Level)
				require.InDelta(t, 25, region.Polygon.Area(), 1e-9)
				require.Equal(t, expected[i].box, region.Polygon.Bounds())
			}
			treetest.RequirePartition(t, carving, tree.CanvasClip(10, 10))
		})
	}
}

func TestSearch(t *testing.T) {
	points := treetest.UniformPoints(200, 64, 32, 11)
	qt := buildTree(t, points, 64, 32, tree.ColorModeAverage)
	for _, p := range points {
		require.Equal(t, p, qt.Search(p.X, p.Y))
	}
	require.Nil(t, qt.Search(-1, 5))
}

func TestAggregation(t *testing.T) {
	points := treetest.UniformPoints(400, 128, 64, 12)
	qt := buildTree(t, points, 128, 64, tree.ColorModeMedian)
	treetest.RequireCount(t, qt, len(points))

	for _, n := range qt.Traverse() {
		children := qt.Children(n)
		treetest.RequireSubpointsClosure(t, n, children[:]...)

		isLeaf := true
		for _, c := range children {
			if c != nil {
				isLeaf = false
			}
		}
		if isLeaf {
			require.NotNil(t, n.Point())
			require.Equal(t, n.Point().LOD, n.LOD())
		} else {
			require.Nil(t, n.Point())
		}
	}
}

func TestOutsidePointsAreSkipped(t *testing.T) {
	points := []*data.Point{
		treetest.NewPoint(1, 1, 10, colorful.Color{}),
		treetest.NewPoint(11, 1, 10, colorful.Color{}),
		treetest.NewPoint(2, -1, 10, colorful.Color{}),
	}
	qt := buildTree(t, points, 10, 10, tree.ColorModeMedian)
	require.Equal(t, 2, qt.Skipped())
	treetest.RequireCount(t, qt, 1)

	qt = buildTree(t, points[1:], 10, 10, tree.ColorModeMedian)
	require.Nil(t, qt.Root())
}

func TestCoincidentPointsAreMerged(t *testing.T) {
	points := make([]*data.Point, 10)
	for i := range points {
		points[i] = treetest.NewPoint(2.5, 7.5, float64(i*10), colorful.Color{R: 0.5})
	}
	qt := NewQuadTree(6)
	require.NoError(t, qt.BuildFrom(points, 10, 10, tree.ColorModeAverage))
	treetest.RequireCount(t, qt, len(points))

	var deepest *tree.Node
	for _, n := range qt.Traverse() {
		if len(n.Coincident()) > 0 {
			deepest = n
		}
	}
	require.NotNil(t, deepest)
	require.Len(t, deepest.Coincident(), len(points)-1)
	require.InDelta(t, 45, deepest.LOD(), 1e-9)
	require.InDelta(t, 45, qt.Root().LOD(), 1e-9)
}

func TestCarve(t *testing.T) {
	points := treetest.UniformPoints(150, 100, 100, 13)
	clip := tree.CanvasClip(100, 100)

	t.Run("regions partition the clip", func(t *testing.T) {
		qt := buildTree(t, points, 100, 100, tree.ColorModeMedian)
		carving, err := qt.Carve(clip, tree.CarveOptions{MaxLevel: 6})
		require.NoError(t, err)
		require.Greater(t, len(carving.Regions), 1)
		treetest.RequirePartition(t, carving, clip)
	})

	t.Run("child paths tile the node path", func(t *testing.T) {
		qt := buildTree(t, points, 100, 100, tree.ColorModeMedian)
		carving, err := qt.Carve(clip, tree.CarveOptions{MaxLevel: 6})
		require.NoError(t, err)
		for _, region := range carving.Regions {
			sum := 0.0
			for _, p := range region.Shapes() {
				sum += p.Area()
			}
			require.InDelta(t, region.Polygon.Area(), sum, 1e-6)
		}
	})

	t.Run("earlier carving survives a new carve", func(t *testing.T) {
		qt := buildTree(t, points, 100, 100, tree.ColorModeMedian)
		first, err := qt.Carve(clip, tree.CarveOptions{MaxLevel: 6})
		require.NoError(t, err)

		levels := make([]int, len(first.Regions))
		pieces := make([]int, len(first.Regions))
		for i, region := range first.Regions {
			levels[i] = region.Level
			pieces[i] = len(region.Pieces)
		}

		_, err = qt.Carve(geometry.Rect(r2.NewBox(0, 0, 50, 50)), tree.CarveOptions{MaxLevel: 2})
		require.NoError(t, err)

		for i, region := range first.Regions {
			require.Equal(t, levels[i], region.Level)
			require.Len(t, region.Pieces, pieces[i])
		}
		treetest.RequirePartition(t, first, clip)
	})

	t.Run("small regions are folded into their parent", func(t *testing.T) {
		qt := buildTree(t, points, 100, 100, tree.ColorModeMedian)
		carving, err := qt.Carve(clip, tree.CarveOptions{MaxLevel: 10, MinArea: 100})
		require.NoError(t, err)
		treetest.RequireMinArea(t, carving, qt.Root(), 100)
		treetest.RequirePartition(t, carving, clip)
	})

	t.Run("max level zero keeps the whole clip", func(t *testing.T) {
		qt := buildTree(t, treetest.UniformPoints(100, 100, 100, 14), 100, 100, tree.ColorModeMedian)
		carving, err := qt.Carve(clip, tree.CarveOptions{MaxLevel: 0, MinArea: 20})
		require.NoError(t, err)
		treetest.RequireSingleRegion(t, carving, clip)
	})

	t.Run("clip smaller than the domain", func(t *testing.T) {
		qt := buildTree(t, points, 100, 100, tree.ColorModeMedian)
		disc := geometry.Disc(r2.Vec{X: 40, Y: 60}, 25, geometry.DefaultDiscSegments)
		carving, err := qt.Carve(disc, tree.CarveOptions{MaxLevel: 5})
		require.NoError(t, err)
		treetest.RequirePartition(t, carving, disc)
	})
}

func TestDeterminism(t *testing.T) {
	carve := func() *tree.Carving {
		qt := buildTree(t, treetest.UniformPoints(120, 100, 100, 15), 100, 100, tree.ColorModeMedian)
		carving, err := qt.Carve(nil, tree.CarveOptions{MaxLevel: 7, MinArea: 4})
		require.NoError(t, err)
		return carving
	}
	treetest.RequireSameCarving(t, carve(), carve())
}
