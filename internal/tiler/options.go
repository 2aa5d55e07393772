package tiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ecopia-map/vector_tiler/internal/tree"
)

var ErrInvalidOptions = errors.New("invalid options")

type Structure string
type Criteria string
type BorderMode string
type ColorScheme string

const (
	// Vantage-point tree: regions follow discs around randomly picked points
	StructureVP Structure = "VP"

	// Point-region quadtree: regions are the fixed quadrants of the canvas
	StructureQuad Structure = "QUAD"

	// K-d tree: regions are rectangles split at the median point of alternating axes
	StructureKD Structure = "KD"
)

const (
	CriteriaLOD       Criteria = "LOD"
	CriteriaDepth     Criteria = "DEPTH"
	CriteriaMatting   Criteria = "MATTING"
	CriteriaSaliencyA Criteria = "SALIENCY_A"
	CriteriaSaliencyO Criteria = "SALIENCY_O"
)

const (
	BorderModeFill          BorderMode = "FILL"
	BorderModeBorder        BorderMode = "BORDER"
	BorderModeFillAndBorder BorderMode = "FILL_AND_BORDER"
	BorderModeWireframe     BorderMode = "WIREFRAME"
)

const (
	ColorSchemeOriginal  ColorScheme = "ORIGINAL"
	ColorSchemeGrayScale ColorScheme = "GRAY_SCALE"
	ColorSchemeWhite     ColorScheme = "WHITE"
)

func normalize(value string) string {
	return strings.ReplaceAll(strings.Trim(strings.ToUpper(value), " "), "-", "_")
}

func ParseStructure(value string) Structure {
	switch normalize(value) {
	case "VP", "VPTREE", "VP_TREE":
		return StructureVP
	case "QUAD", "QUADTREE", "QUAD_TREE":
		return StructureQuad
	case "KD", "KDTREE", "KD_TREE":
		return StructureKD
	}
	return ""
}

func ParseCriteria(value string) Criteria {
	switch c := Criteria(normalize(value)); c {
	case CriteriaLOD, CriteriaDepth, CriteriaMatting, CriteriaSaliencyA, CriteriaSaliencyO:
		return c
	}
	return ""
}

func ParseBorderMode(value string) BorderMode {
	switch m := BorderMode(normalize(value)); m {
	case BorderModeFill, BorderModeBorder, BorderModeFillAndBorder, BorderModeWireframe:
		return m
	}
	return ""
}

func ParseColorScheme(value string) ColorScheme {
	switch s := ColorScheme(normalize(value)); s {
	case ColorSchemeOriginal, ColorSchemeGrayScale, ColorSchemeWhite:
		return s
	}
	return ""
}

// Contains the options of a single layer: which points it keeps, how it builds and carves them
type LayerOptions struct {
	Structure Structure      `yaml:"structure"`
	Criteria  Criteria       `yaml:"criteria"`
	From      float64        `yaml:"from"`      // inclusive lower bound of the criteria channel
	To        float64        `yaml:"to"`        // inclusive upper bound of the criteria channel
	MaxLevel  int            `yaml:"maxLevel"`  // carving depth budget
	MinArea   float64        `yaml:"minArea"`   // regions below this area are merged into their parent
	ColorMode tree.ColorMode `yaml:"colorMode"` // color aggregation policy
	Areas     [][][2]float64 `yaml:"areas"`     // polygons the layer claims, empty means anywhere left
}

// Default layer: every point through a VP tree with the stock level and area budgets
func NewDefaultLayerOptions() *LayerOptions {
	return &LayerOptions{
		Structure: StructureVP,
		Criteria:  CriteriaLOD,
		From:      0,
		To:        255,
		MaxLevel:  15,
		MinArea:   20,
		ColorMode: tree.ColorModeMedian,
	}
}

func (o *LayerOptions) Copy() *LayerOptions {
	c := *o
	c.Areas = make([][][2]float64, len(o.Areas))
	for i, ring := range o.Areas {
		c.Areas[i] = append([][2]float64(nil), ring...)
	}
	return &c
}

func (o *LayerOptions) CarveOptions() tree.CarveOptions {
	return tree.CarveOptions{MaxLevel: o.MaxLevel, MinArea: o.MinArea}
}

func (o *LayerOptions) String() string {
	return fmt.Sprintf("%s [%s: %v - %v]", o.Criteria, o.Structure, o.From, o.To)
}

// Normalizes the enum values and checks ranges
func (o *LayerOptions) Validate() error {
	o.Structure = ParseStructure(string(o.Structure))
	if o.Structure == "" {
		return fmt.Errorf("%w: unknown structure, expected VP, QUAD or KD", ErrInvalidOptions)
	}
	o.Criteria = ParseCriteria(string(o.Criteria))
	if o.Criteria == "" {
		return fmt.Errorf("%w: unknown criteria, expected LOD, DEPTH, MATTING, SALIENCY_A or SALIENCY_O", ErrInvalidOptions)
	}
	o.ColorMode = tree.ParseColorMode(string(o.ColorMode))
	if o.ColorMode == "" {
		return fmt.Errorf("%w: unknown color mode, expected MEDIAN, AVG or POINT", ErrInvalidOptions)
	}
	if o.From > o.To {
		return fmt.Errorf("%w: layer range from %v is greater than to %v", ErrInvalidOptions, o.From, o.To)
	}
	if o.MaxLevel < 0 {
		o.MaxLevel = 0
	}
	if o.MinArea < 0 {
		o.MinArea = 0
	}
	for _, ring := range o.Areas {
		if len(ring) < 3 {
			return fmt.Errorf("%w: layer area with %d vertices", ErrInvalidOptions, len(ring))
		}
	}
	return nil
}

// Contains the SVG appearance settings
type AppearanceOptions struct {
	BorderMode  BorderMode  `yaml:"borderMode"`
	ColorScheme ColorScheme `yaml:"colorScheme"`
	Border0     float64     `yaml:"border0"`   // stroke width at the lowest used level
	Border1     float64     `yaml:"border1"`   // stroke width at the highest used level
	Color0      string      `yaml:"color0"`    // stroke color at the lowest used level
	Color1      string      `yaml:"color1"`    // stroke color at the highest used level
	Precision   int         `yaml:"precision"` // decimals of path coordinates
}

func NewDefaultAppearanceOptions() *AppearanceOptions {
	return &AppearanceOptions{
		BorderMode:  BorderModeFill,
		ColorScheme: ColorSchemeOriginal,
		Border0:     0.3,
		Border1:     0.3,
		Color0:      "#000000",
		Color1:      "#000000",
		Precision:   2,
	}
}

func (o *AppearanceOptions) Validate() error {
	o.BorderMode = ParseBorderMode(string(o.BorderMode))
	if o.BorderMode == "" {
		return fmt.Errorf("%w: unknown border mode, expected FILL, BORDER, FILL_AND_BORDER or WIREFRAME", ErrInvalidOptions)
	}
	o.ColorScheme = ParseColorScheme(string(o.ColorScheme))
	if o.ColorScheme == "" {
		return fmt.Errorf("%w: unknown color scheme, expected ORIGINAL, GRAY_SCALE or WHITE", ErrInvalidOptions)
	}
	if o.Precision < 0 {
		return fmt.Errorf("%w: negative precision %d", ErrInvalidOptions, o.Precision)
	}
	return nil
}

// Contains the options needed for the tiling algorithm
type TilerOptions struct {
	Input            string  // Input point file/folder
	FolderProcessing bool    // Enables the processing of all point files in folder
	Recursive        bool    // Recursive lookup of point files in subfolders
	Seed             string  // Seed of the tree random generators
	BorderWidth      float64 // Amount the canvas clip is grown by on every side
	MetricsFile      string  // Optional file the prometheus metrics are written to

	Layers     []*LayerOptions
	Appearance *AppearanceOptions

	Command            string
	TilerSvgOptions    *TilerSvgOptions
	TilerMeshOptions   *TilerMeshOptions
	TilerVerifyOptions *TilerVerifyOptions
}

type TilerSvgOptions struct {
	Output string // Output SVG file or folder
}

type TilerMeshOptions struct {
	Output  string  // Output PLY file or folder
	ZOffset float64 // Offset added to the normalized depth
	Extrude bool    // Adds walls from every region down to depth zero
}

type TilerVerifyOptions struct {
	Tolerance float64 // Allowed relative area mismatch between regions and clip
}

func (o *TilerOptions) Validate() error {
	if o.Input == "" {
		return fmt.Errorf("%w: no input given", ErrInvalidOptions)
	}
	if o.Seed == "" {
		o.Seed = tree.DefaultSeed
	}
	if o.BorderWidth < 0 {
		return fmt.Errorf("%w: negative border width %v", ErrInvalidOptions, o.BorderWidth)
	}
	if len(o.Layers) == 0 {
		o.Layers = []*LayerOptions{NewDefaultLayerOptions()}
	}
	for i, layer := range o.Layers {
		if err := layer.Validate(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	if o.Appearance == nil {
		o.Appearance = NewDefaultAppearanceOptions()
	}
	return o.Appearance.Validate()
}
