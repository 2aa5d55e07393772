package pkg

import (
	"github.com/ecopia-map/vector_tiler/internal/io"
	"github.com/ecopia-map/vector_tiler/internal/mesh"
	"github.com/ecopia-map/vector_tiler/internal/metrics"
	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/vector_tiler/tools"
	"github.com/golang/glog"
)

// Writes the carved regions of every point file as a colored triangle mesh
type TilerMesh struct {
	tilerBase
}

func NewTilerMesh(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) ITiler {
	return &TilerMesh{
		tilerBase: tilerBase{
			fileFinder:       fileFinder,
			algorithmManager: algorithmManager,
		},
	}
}

func (t *TilerMesh) RunTiler(opts *tiler.TilerOptions) error {
	meshOptions := opts.TilerMeshOptions
	if meshOptions == nil {
		meshOptions = &tiler.TilerMeshOptions{}
	}
	return t.run(opts, func(file *carvedFile) error {
		return t.exportMesh(file, meshOptions, tools.GetOutputPath(opts, meshOptions.Output, file.path, ".ply"))
	})
}

func (t *TilerMesh) exportMesh(file *carvedFile, opts *tiler.TilerMeshOptions, outputPath string) error {
	glog.Infoln("> exporting mesh...", outputPath)
	converter := t.algorithmManager.GetCoordinateConverterAlgorithm(file.width, file.height)
	defer converter.Cleanup()

	builder := mesh.NewBuilder(converter, t.algorithmManager.GetElevationCorrectionAlgorithm(), opts.Extrude)
	m, err := BuildMesh(file.carvings, builder)
	if err != nil {
		return err
	}

	out, err := tools.CreateFile(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := mesh.WritePly(out, m); err != nil {
		return err
	}
	metrics.InstrumentWrite("mesh")
	glog.Infof("> %d vertices, %d triangles", m.NumVertices(), m.NumTriangles())
	return out.Close()
}

// Triangulates the regions of the carvings and merges them, in layer order, into one mesh
func BuildMesh(carvings []*tree.Carving, builder *mesh.Builder) (*mesh.Mesh, error) {
	results := make([]*mesh.Mesh, io.CountRegions(carvings))
	err := exportCarvings(carvings, func() io.Consumer {
		return io.NewMeshConsumer(builder, results)
	})
	if err != nil {
		return nil, err
	}

	m := mesh.NewMesh()
	for _, part := range results {
		m.Append(part)
	}
	return m, nil
}
