package pkg

import (
	"fmt"

	"github.com/ecopia-map/vector_tiler/internal/io"
	"github.com/ecopia-map/vector_tiler/internal/metrics"
	"github.com/ecopia-map/vector_tiler/internal/svg"
	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/vector_tiler/tools"
	"github.com/golang/glog"
)

// Writes the carved regions of every point file as an SVG document
type TilerSvg struct {
	tilerBase
}

func NewTilerSvg(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) ITiler {
	return &TilerSvg{
		tilerBase: tilerBase{
			fileFinder:       fileFinder,
			algorithmManager: algorithmManager,
		},
	}
}

func (t *TilerSvg) RunTiler(opts *tiler.TilerOptions) error {
	return t.run(opts, func(file *carvedFile) error {
		output := ""
		if opts.TilerSvgOptions != nil {
			output = opts.TilerSvgOptions.Output
		}
		return t.exportSvg(file, opts, tools.GetOutputPath(opts, output, file.path, ".svg"))
	})
}

func (t *TilerSvg) exportSvg(file *carvedFile, opts *tiler.TilerOptions, outputPath string) error {
	glog.Infoln("> exporting svg...", outputPath)
	builder, err := BuildSvg(file.carvings, file.width, file.height, opts.Appearance)
	if err != nil {
		return err
	}

	out, err := tools.CreateFile(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := builder.WriteTo(out); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	metrics.InstrumentWrite("svg")
	glog.Infof("> %d paths in %d color groups", builder.Len(), builder.Groups())
	return out.Close()
}

// Renders the regions of the carvings, in layer order, into an SVG builder
func BuildSvg(carvings []*tree.Carving, width, height float64, appearance *tiler.AppearanceOptions) (*svg.Builder, error) {
	builder, err := svg.NewBuilder(width, height, appearance)
	if err != nil {
		return nil, err
	}

	precision := builder.Precision()
	results := make([][]*svg.Element, io.CountRegions(carvings))
	err = exportCarvings(carvings, func() io.Consumer {
		return io.NewSvgConsumer(precision, results)
	})
	if err != nil {
		return nil, err
	}

	for _, elements := range results {
		builder.Add(elements...)
	}
	return builder, nil
}
