package tiler

import (
	"testing"

	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	require.Equal(t, StructureVP, ParseStructure("vp"))
	require.Equal(t, StructureQuad, ParseStructure(" quad-tree "))
	require.Equal(t, StructureKD, ParseStructure("KdTree"))
	require.Equal(t, Structure(""), ParseStructure("octree"))

	require.Equal(t, CriteriaSaliencyA, ParseCriteria("saliency-a"))
	require.Equal(t, Criteria(""), ParseCriteria("hue"))

	require.Equal(t, BorderModeFillAndBorder, ParseBorderMode("fill_and_border"))
	require.Equal(t, ColorSchemeGrayScale, ParseColorScheme("gray-scale"))
}

func TestLayerOptionsValidate(t *testing.T) {
	t.Run("normalizes values", func(t *testing.T) {
		o := &LayerOptions{Structure: "quad", Criteria: "depth", ColorMode: "avg", To: 1, MaxLevel: -2, MinArea: -1}
		require.NoError(t, o.Validate())
		require.Equal(t, StructureQuad, o.Structure)
		require.Equal(t, CriteriaDepth, o.Criteria)
		require.Equal(t, tree.ColorModeAverage, o.ColorMode)
		require.Zero(t, o.MaxLevel)
		require.Zero(t, o.MinArea)
	})

	t.Run("rejects bad values", func(t *testing.T) {
		bad := []*LayerOptions{
			{Structure: "octree", Criteria: "LOD", ColorMode: "MEDIAN"},
			{Structure: "VP", Criteria: "HUE", ColorMode: "MEDIAN"},
			{Structure: "VP", Criteria: "LOD", ColorMode: "MODE"},
			{Structure: "VP", Criteria: "LOD", ColorMode: "MEDIAN", From: 10, To: 1},
			{Structure: "VP", Criteria: "LOD", ColorMode: "MEDIAN", Areas: [][][2]float64{{{0, 0}, {1, 1}}}},
		}
		for _, o := range bad {
			require.ErrorIs(t, o.Validate(), ErrInvalidOptions)
		}
	})
}

func TestLayerOptionsCopy(t *testing.T) {
	o := NewDefaultLayerOptions()
	o.Areas = [][][2]float64{{{0, 0}, {1, 0}, {1, 1}}}
	c := o.Copy()
	c.Areas[0][0] = [2]float64{5, 5}
	c.MaxLevel = 2
	require.Equal(t, [2]float64{0, 0}, o.Areas[0][0])
	require.Equal(t, 15, o.MaxLevel)
}

func TestTilerOptionsValidate(t *testing.T) {
	o := &TilerOptions{}
	require.ErrorIs(t, o.Validate(), ErrInvalidOptions)

	o = &TilerOptions{Input: "points.json"}
	require.NoError(t, o.Validate())
	require.Equal(t, tree.DefaultSeed, o.Seed)
	require.Len(t, o.Layers, 1)
	require.Equal(t, NewDefaultAppearanceOptions(), o.Appearance)

	o = &TilerOptions{Input: "points.json", Layers: []*LayerOptions{{Structure: "nope"}}}
	err := o.Validate()
	require.ErrorIs(t, err, ErrInvalidOptions)
	require.Contains(t, err.Error(), "layer 0")
}

func TestParseConfig(t *testing.T) {
	content := []byte(`
seed: fixed
borderWidth: 3
layers:
  - structure: QUAD
    criteria: DEPTH
    from: 0.5
    to: 1
    maxLevel: 8
    minArea: 4
  - structure: KD
    areas:
      - [[0, 0], [10, 0], [10, 10], [0, 10]]
appearance:
  borderMode: WIREFRAME
  border0: 1
  border1: 0.1
`)
	cfg, err := ParseConfig(content)
	require.NoError(t, err)
	require.Len(t, cfg.Layers, 2)
	require.Equal(t, StructureQuad, cfg.Layers[0].Structure)
	require.Equal(t, 0.5, cfg.Layers[0].From)
	require.Equal(t, tree.ColorModeMedian, cfg.Layers[0].ColorMode)
	require.Equal(t, CriteriaLOD, cfg.Layers[1].Criteria)
	require.Equal(t, 255.0, cfg.Layers[1].To)
	require.Len(t, cfg.Layers[1].Areas[0], 4)
	require.Equal(t, ColorSchemeOriginal, cfg.Appearance.ColorScheme)

	opts := &TilerOptions{Input: "in.json"}
	cfg.ApplyTo(opts)
	require.NoError(t, opts.Validate())
	require.Equal(t, "fixed", opts.Seed)
	require.Equal(t, 3.0, opts.BorderWidth)
	require.Equal(t, BorderModeWireframe, opts.Appearance.BorderMode)

	_, err = ParseConfig([]byte("layers: [nope"))
	require.ErrorIs(t, err, ErrInvalidOptions)
}
