package pkg

import (
	"errors"
	"fmt"
	"math"

	"github.com/ecopia-map/vector_tiler/internal/geometry"
	"github.com/ecopia-map/vector_tiler/internal/layer"
	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/vector_tiler/tools"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/spatial/r2"
)

var ErrVerificationFailed = errors.New("verification failed")

// Builds and carves every point file and checks the carvings: point counts, partition of the
// covered area, minimum region area and repeatability
type TilerVerify struct {
	tilerBase
}

func NewTilerVerify(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) ITiler {
	return &TilerVerify{
		tilerBase: tilerBase{
			fileFinder:       fileFinder,
			algorithmManager: algorithmManager,
		},
	}
}

func (t *TilerVerify) RunTiler(opts *tiler.TilerOptions) error {
	tolerance := 1e-6
	if opts.TilerVerifyOptions != nil && opts.TilerVerifyOptions.Tolerance > 0 {
		tolerance = opts.TilerVerifyOptions.Tolerance
	}

	failed := false
	err := t.run(opts, func(file *carvedFile) error {
		problems, err := t.verifyFile(file, opts, tolerance)
		if err != nil {
			return err
		}
		for _, problem := range problems {
			glog.Errorf("%s: %s", file.path, problem)
		}
		if len(problems) > 0 {
			failed = true
		} else {
			glog.Infoln("> verified", file.path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failed {
		return ErrVerificationFailed
	}
	return nil
}

func (t *TilerVerify) verifyFile(file *carvedFile, opts *tiler.TilerOptions, tolerance float64) ([]string, error) {
	problems := make([]string, 0)
	for i, l := range file.layers {
		covered := CoveredArea(l, file.width, file.height, opts.BorderWidth)
		for _, problem := range VerifyCarving(file.trees[i], l, file.carvings[i], covered, tolerance) {
			problems = append(problems, fmt.Sprintf("layer %d: %s", i, problem))
		}

		// a second independent build must give the same carving
		again, err := t.algorithmManager.GetTreeAlgorithm(l.Options().Structure)
		if err != nil {
			return nil, err
		}
		carving, err := l.Build(again, file.width, file.height, opts.BorderWidth)
		if err != nil {
			return nil, err
		}
		if problem := CompareCarvings(file.carvings[i], carving); problem != "" {
			problems = append(problems, fmt.Sprintf("layer %d: %s", i, problem))
		}
	}
	return problems, nil
}

// Area a carving of the layer is expected to cover: the layer clip, restricted to the canvas for
// the quadtree whose domain is the canvas
func CoveredArea(l *layer.Layer, width, height, border float64) *geometry.Polygon {
	clip := l.ClipPath(width, height, border)
	if l.Options().Structure == tiler.StructureQuad {
		clip = clip.Intersect(geometry.Rect(r2.NewBox(0, 0, width, height)))
	}
	return clip
}

type skipper interface {
	Skipped() int
}

// Checks a carving against the layer it was built from, returns the problems found
func VerifyCarving(t tree.ITree, l *layer.Layer, carving *tree.Carving, covered *geometry.Polygon, tolerance float64) []string {
	problems := make([]string, 0)
	expected := len(l.Points())
	if s, ok := t.(skipper); ok {
		expected -= s.Skipped()
	}

	root := t.Root()
	if root == nil {
		if expected > 0 {
			problems = append(problems, fmt.Sprintf("no root for %d points", expected))
		}
		if len(carving.Regions) > 0 {
			problems = append(problems, fmt.Sprintf("%d regions without a root", len(carving.Regions)))
		}
		return problems
	}
	if root.NumberOfPoints() != expected {
		problems = append(problems, fmt.Sprintf("root counts %d points, expected %d", root.NumberOfPoints(), expected))
	}

	minArea := l.Options().MinArea
	total := 0.0
	for i, region := range carving.Regions {
		area := region.Polygon.Area()
		total += area
		if area <= 0 {
			problems = append(problems, fmt.Sprintf("region %d is empty", i))
		}
		if outside := region.Polygon.Subtract(covered).Area(); outside > tolerance*math.Max(1, area) {
			problems = append(problems, fmt.Sprintf("region %d extends %v outside the clip", i, outside))
		}
		if region.Level > 0 && area < minArea-tolerance*math.Max(1, minArea) {
			problems = append(problems, fmt.Sprintf("region %d at level %d has area %v below %v", i, region.Level, area, minArea))
		}
	}

	if !tools.IsAreaEqual(total, covered.Area(), tolerance) {
		problems = append(problems, fmt.Sprintf("regions cover %v, clip covers %v", total, covered.Area()))
	}

	for i := range carving.Regions {
		for j := i + 1; j < len(carving.Regions); j++ {
			a, b := carving.Regions[i].Polygon, carving.Regions[j].Polygon
			if !overlapping(a.Bounds(), b.Bounds()) {
				continue
			}
			if overlap := a.Intersect(b).Area(); overlap > tolerance*math.Max(1, math.Min(a.Area(), b.Area())) {
				problems = append(problems, fmt.Sprintf("regions %d and %d overlap by %v", i, j, overlap))
			}
		}
	}
	return problems
}

func overlapping(a, b r2.Box) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X && a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}

// Compares two carvings region by region, returns an empty string when they match
func CompareCarvings(a, b *tree.Carving) string {
	if len(a.Regions) != len(b.Regions) {
		return fmt.Sprintf("repeated carve gives %d regions instead of %d", len(b.Regions), len(a.Regions))
	}
	for i := range a.Regions {
		ra, rb := a.Regions[i], b.Regions[i]
		if ra.Level != rb.Level || ra.Color != rb.Color {
			return fmt.Sprintf("repeated carve changes region %d", i)
		}
		ca, cb := ra.Polygon.Contours(), rb.Polygon.Contours()
		if len(ca) != len(cb) {
			return fmt.Sprintf("repeated carve changes the contours of region %d", i)
		}
		for k := range ca {
			if len(ca[k]) != len(cb[k]) {
				return fmt.Sprintf("repeated carve changes the contours of region %d", i)
			}
			for v := range ca[k] {
				if ca[k][v] != cb[k][v] {
					return fmt.Sprintf("repeated carve moves a vertex of region %d", i)
				}
			}
		}
	}
	return ""
}
