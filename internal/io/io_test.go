package io

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ecopia-map/vector_tiler/internal/converters/canvas_coordinate_converter"
	"github.com/ecopia-map/vector_tiler/internal/converters/elevation/offset_elevation_corrector"
	"github.com/ecopia-map/vector_tiler/internal/mesh"
	"github.com/ecopia-map/vector_tiler/internal/svg"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/internal/tree/quad_tree"
	"github.com/ecopia-map/vector_tiler/internal/tree/treetest"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
)

const pointFile = `{
	"width": 4,
	"height": 2,
	"points": [
		{"x": 1, "y": 1, "color": "#ff0000", "lod": 200, "depth": 10, "segment": [1, 2, 3]},
		{"x": 3, "y": 1, "color": "#00ff00", "quantizedColor": "#0000ff", "lod": 20, "matting": 0.5, "saliencyA": 0.1, "saliencyO": 0.2}
	]
}`

func TestDecodePointFile(t *testing.T) {
	f, err := DecodePointFile([]byte(pointFile))
	require.NoError(t, err)
	require.Equal(t, 4.0, f.Width)
	require.Equal(t, 2.0, f.Height)

	points, err := f.DataPoints()
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, colorful.Color{R: 1}, points[0].Color)
	require.Equal(t, points[0].Color, points[0].QuantizedColor)
	require.Equal(t, [3]uint8{1, 2, 3}, points[0].Segment)
	require.Equal(t, colorful.Color{B: 1}, points[1].QuantizedColor)
	require.Equal(t, 0.5, points[1].Matting)

	t.Run("errors", func(t *testing.T) {
		_, err := DecodePointFile([]byte(`{"points": [`))
		require.Error(t, err)

		f, err := DecodePointFile([]byte(`{"points": [{"color": "red"}]}`))
		require.NoError(t, err)
		_, err = f.DataPoints()
		require.Error(t, err)

		f, err = DecodePointFile([]byte(`{"points": [null]}`))
		require.NoError(t, err)
		_, err = f.DataPoints()
		require.Error(t, err)
	})
}

func TestWriteAndReadPointFile(t *testing.T) {
	points := treetest.UniformPoints(20, 30, 40, 5)
	f := &PointFile{Width: 30, Height: 40}
	for _, p := range points {
		f.Points = append(f.Points, NewPointRecord(p))
	}

	path := filepath.Join(t.TempDir(), "points.json")
	require.NoError(t, WritePointFile(path, f))

	read, err := ReadPointFile(path)
	require.NoError(t, err)
	decoded, err := read.DataPoints()
	require.NoError(t, err)
	require.Len(t, decoded, len(points))
	for i, p := range decoded {
		require.Equal(t, points[i].X, p.X)
		require.Equal(t, points[i].LOD, p.LOD)
		require.Equal(t, points[i].Color.Hex(), p.Color.Hex())
	}

	_, err = ReadPointFile(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func carvings(t *testing.T) []*tree.Carving {
	result := make([]*tree.Carving, 0)
	for _, seed := range []uint64{1, 2} {
		qt := quad_tree.NewQuadTree(0)
		require.NoError(t, qt.BuildFrom(treetest.UniformPoints(40, 64, 64, seed), 64, 64, tree.ColorModeMedian))
		carving, err := qt.Carve(nil, tree.CarveOptions{MaxLevel: 4})
		require.NoError(t, err)
		result = append(result, carving)
	}
	return append(result, nil)
}

func TestStandardProducer(t *testing.T) {
	cs := carvings(t)
	work := make(chan *WorkUnit, CountRegions(cs))

	var wg sync.WaitGroup
	wg.Add(1)
	NewStandardProducer().Produce(work, &wg, cs)
	wg.Wait()

	index := 0
	for w := range work {
		require.Equal(t, index, w.Index)
		expectedLayer := 0
		if index >= len(cs[0].Regions) {
			expectedLayer = 1
		}
		require.Equal(t, expectedLayer, w.Layer)
		index++
	}
	require.Equal(t, len(cs[0].Regions)+len(cs[1].Regions), index)
}

func run(cs []*tree.Carving, consumers ...Consumer) []error {
	work := make(chan *WorkUnit, 2)
	errs := make(chan error, len(consumers))
	var wg sync.WaitGroup
	wg.Add(1)
	go NewStandardProducer().Produce(work, &wg, cs)
	for _, c := range consumers {
		wg.Add(1)
		go c.Consume(work, errs, &wg)
	}
	wg.Wait()
	close(errs)

	result := make([]error, 0)
	for err := range errs {
		result = append(result, err)
	}
	return result
}

func TestSvgConsumer(t *testing.T) {
	cs := carvings(t)
	results := make([][]*svg.Element, CountRegions(cs))
	require.Empty(t, run(cs, NewSvgConsumer(2, results), NewSvgConsumer(2, results), NewSvgConsumer(2, results)))
	for i, elements := range results {
		require.NotEmpty(t, elements, "region %d", i)
	}

	t.Run("too few slots", func(t *testing.T) {
		errs := run(cs, NewSvgConsumer(2, make([][]*svg.Element, 1)))
		require.Len(t, errs, 1)
	})
}

func TestMeshConsumer(t *testing.T) {
	cs := carvings(t)
	builder := mesh.NewBuilder(
		canvas_coordinate_converter.NewCanvasCoordinateConverter(64, 64),
		offset_elevation_corrector.NewOffsetElevationCorrector(0),
		false,
	)
	results := make([]*mesh.Mesh, CountRegions(cs))
	require.Empty(t, run(cs, NewMeshConsumer(builder, results), NewMeshConsumer(builder, results)))
	for _, m := range results {
		require.NotNil(t, m)
		require.Greater(t, m.NumTriangles(), 0)
	}
}
