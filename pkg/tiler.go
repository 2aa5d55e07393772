package pkg

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/ecopia-map/vector_tiler/internal/io"
	"github.com/ecopia-map/vector_tiler/internal/layer"
	"github.com/ecopia-map/vector_tiler/internal/metrics"
	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/vector_tiler/tools"
	"github.com/golang/glog"
)

type ITiler interface {
	RunTiler(opts *tiler.TilerOptions) error
}

// Point file loaded and carved layer by layer
type carvedFile struct {
	path     string
	width    float64
	height   float64
	layers   []*layer.Layer
	trees    []tree.ITree
	carvings []*tree.Carving
}

// Behaviour shared by the tilers: file lookup, loading and carving
type tilerBase struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

// Runs process on every point file of the options, then writes the metrics if asked to
func (b *tilerBase) run(opts *tiler.TilerOptions, process func(file *carvedFile) error) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	glog.Infoln("Preparing list of files to process...")
	pointFiles, err := b.fileFinder.GetPointFilesToProcess(opts)
	if err != nil {
		return fmt.Errorf("looking up point files: %w", err)
	}
	for i, filePath := range pointFiles {
		glog.Infof("point_file path %d [%s]", i+1, filePath)
	}

	for i, filePath := range pointFiles {
		glog.Infof("Processing file %d/%d", i+1, len(pointFiles))
		file, err := b.carveFile(filePath, opts)
		if err != nil {
			return err
		}
		if err := process(file); err != nil {
			return fmt.Errorf("processing %s: %w", filePath, err)
		}
		glog.Infoln("> done processing", filepath.Base(filePath))
	}

	if opts.MetricsFile != "" {
		if err := metrics.WriteToTextfile(opts.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

func (b *tilerBase) carveFile(filePath string, opts *tiler.TilerOptions) (*carvedFile, error) {
	glog.Infoln("> reading data from point file...", filepath.Base(filePath))
	pointFile, err := io.ReadPointFile(filePath)
	if err != nil {
		return nil, err
	}
	points, err := pointFile.DataPoints()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	glog.Infoln("> building data structures...")
	layers, trees, carvings, err := b.carveLayers(points, pointFile.Width, pointFile.Height, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return &carvedFile{
		path:     filePath,
		width:    pointFile.Width,
		height:   pointFile.Height,
		layers:   layers,
		trees:    trees,
		carvings: carvings,
	}, nil
}

// Builds and carves every layer of the options over the points. Trees and carvings keep the layer
// order.
func (b *tilerBase) carveLayers(points []*data.Point, width, height float64, opts *tiler.TilerOptions) ([]*layer.Layer, []tree.ITree, []*tree.Carving, error) {
	layers := layer.NewStack(opts.Layers)
	trees := make([]tree.ITree, len(layers))
	carvings := make([]*tree.Carving, len(layers))
	for i, l := range layers {
		structure := string(l.Options().Structure)
		t, err := b.algorithmManager.GetTreeAlgorithm(l.Options().Structure)
		if err != nil {
			return nil, nil, nil, err
		}

		start := time.Now()
		l.SetPoints(points)
		carving, err := l.Build(t, width, height, opts.BorderWidth)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("layer %d: %w", i, err)
		}
		metrics.InstrumentBuild(structure, len(l.Points()))
		metrics.InstrumentCarve(structure, len(carving.Regions), start)
		trees[i] = t
		carvings[i] = carving
	}
	return layers, trees, carvings, nil
}

// Hands every carved region to a pool of consumers, one per CPU, and waits for them
func exportCarvings(carvings []*tree.Carving, newConsumer func() io.Consumer) error {
	// a consumer goroutine per CPU
	numConsumers := runtime.NumCPU()

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, numConsumers*5)

	// each consumer submits at most one error before quitting
	errorChannel := make(chan error, numConsumers)

	var waitGroup sync.WaitGroup

	// add producer to waitgroup and launch producer goroutine
	waitGroup.Add(1)
	producer := io.NewStandardProducer()
	go producer.Produce(workChannel, &waitGroup, carvings)

	// add consumers to waitgroup and launch them
	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		go newConsumer().Consume(workChannel, errorChannel, &waitGroup)
	}

	// wait for producers and consumers to finish
	waitGroup.Wait()

	// close error chan
	close(errorChannel)

	// find if there are errors in the error channel buffer
	withErrors := false
	for err := range errorChannel {
		glog.Errorln(err)
		withErrors = true
	}
	if withErrors {
		return errors.New("errors raised during execution. Check console output for details")
	}

	return nil
}
