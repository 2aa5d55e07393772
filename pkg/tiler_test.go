package pkg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecopia-map/vector_tiler/internal/io"
	"github.com/ecopia-map/vector_tiler/internal/layer"
	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/internal/tree/treetest"
	"github.com/ecopia-map/vector_tiler/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/vector_tiler/tools"
	"github.com/stretchr/testify/require"
)

var structures = []tiler.Structure{tiler.StructureVP, tiler.StructureQuad, tiler.StructureKD}

func writePoints(t *testing.T, dir, name string, n int, seed uint64) string {
	f := &io.PointFile{Width: 80, Height: 60}
	for _, p := range treetest.UniformPoints(n, 80, 60, seed) {
		f.Points = append(f.Points, io.NewPointRecord(p))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, io.WritePointFile(path, f))
	return path
}

func options(input string, structure tiler.Structure) *tiler.TilerOptions {
	l := tiler.NewDefaultLayerOptions()
	l.Structure = structure
	l.MaxLevel = 6
	l.MinArea = 4
	return &tiler.TilerOptions{
		Input:              input,
		Seed:               "test-seed",
		Layers:             []*tiler.LayerOptions{l},
		TilerVerifyOptions: &tiler.TilerVerifyOptions{Tolerance: 1e-4},
	}
}

func TestTilerSvg(t *testing.T) {
	for _, structure := range structures {
		t.Run(string(structure), func(t *testing.T) {
			dir := t.TempDir()
			input := writePoints(t, dir, "points.json", 150, 3)
			opts := options(input, structure)
			opts.TilerSvgOptions = &tiler.TilerSvgOptions{Output: filepath.Join(dir, "out", "points.svg")}

			tl := NewTilerSvg(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts))
			require.NoError(t, tl.RunTiler(opts))

			content, err := os.ReadFile(opts.TilerSvgOptions.Output)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(string(content), "<svg "))
			require.Greater(t, strings.Count(string(content), "<path "), 1)

			// same seed, same document
			require.NoError(t, tl.RunTiler(opts))
			again, err := os.ReadFile(opts.TilerSvgOptions.Output)
			require.NoError(t, err)
			require.Equal(t, content, again)
		})
	}
}

func TestTilerMesh(t *testing.T) {
	dir := t.TempDir()
	writePoints(t, dir, "a.json", 100, 1)
	writePoints(t, dir, "b.json", 100, 2)

	opts := options(dir, tiler.StructureKD)
	opts.FolderProcessing = true
	opts.MetricsFile = filepath.Join(dir, "metrics.prom")
	opts.TilerMeshOptions = &tiler.TilerMeshOptions{Output: filepath.Join(dir, "meshes"), Extrude: true}

	tl := NewTilerMesh(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts))
	require.NoError(t, tl.RunTiler(opts))

	for _, name := range []string{"a.ply", "b.ply"} {
		content, err := os.ReadFile(filepath.Join(dir, "meshes", name))
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(content, []byte("ply\nformat binary_little_endian 1.0\n")))
		header := string(content[:bytes.Index(content, []byte("end_header\n"))])
		require.Contains(t, header, "element face ")
		require.NotContains(t, header, "element face 0\n")
	}

	metrics, err := os.ReadFile(opts.MetricsFile)
	require.NoError(t, err)
	require.Contains(t, string(metrics), `vector_tiler_written_files{output="mesh"}`)
}

func TestTilerVerify(t *testing.T) {
	for _, structure := range structures {
		t.Run(string(structure), func(t *testing.T) {
			dir := t.TempDir()
			opts := options(writePoints(t, dir, "points.json", 120, 9), structure)

			second := tiler.NewDefaultLayerOptions()
			second.Structure = structure
			second.MaxLevel = 4
			second.Criteria = tiler.CriteriaDepth
			second.From, second.To = 100, 255
			second.Areas = [][][2]float64{{{0, 0}, {40, 0}, {40, 30}, {0, 30}}}
			opts.Layers = append(opts.Layers, second)

			tl := NewTilerVerify(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts))
			require.NoError(t, tl.RunTiler(opts))
		})
	}

	t.Run("missing input", func(t *testing.T) {
		opts := options(filepath.Join(t.TempDir(), "missing.json"), tiler.StructureVP)
		tl := NewTilerVerify(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts))
		require.ErrorIs(t, tl.RunTiler(opts), os.ErrNotExist)
	})

	t.Run("invalid options", func(t *testing.T) {
		opts := options("points.json", "octree")
		tl := NewTilerVerify(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts))
		require.ErrorIs(t, tl.RunTiler(opts), tiler.ErrInvalidOptions)
	})
}

func TestVerifyCarving(t *testing.T) {
	opts := options("points.json", tiler.StructureQuad)
	require.NoError(t, opts.Validate())
	manager := std_algorithm_manager.NewAlgorithmManager(opts)

	l := layer.NewLayer(opts.Layers[0])
	l.SetPoints(treetest.UniformPoints(60, 80, 60, 4))
	tr, err := manager.GetTreeAlgorithm(tiler.StructureQuad)
	require.NoError(t, err)
	carving, err := l.Build(tr, 80, 60, 0)
	require.NoError(t, err)
	require.Greater(t, len(carving.Regions), 1)

	covered := CoveredArea(l, 80, 60, 0)
	require.Empty(t, VerifyCarving(tr, l, carving, covered, 1e-6))

	missing := &tree.Carving{Regions: carving.Regions[1:], MinLevel: carving.MinLevel, MaxLevel: carving.MaxLevel}
	require.NotEmpty(t, VerifyCarving(tr, l, missing, covered, 1e-6))

	doubled := &tree.Carving{Regions: append(append([]tree.Region{}, carving.Regions...), carving.Regions[0])}
	problems := VerifyCarving(tr, l, doubled, covered, 1e-6)
	require.NotEmpty(t, problems)

	require.Empty(t, CompareCarvings(carving, carving))
	require.NotEmpty(t, CompareCarvings(carving, missing))
}
