package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	structureLabel = "structure"
	outputLabel    = "output"
)

var (
	treeBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vector_tiler_tree_builds",
		Help: "The number of trees built.",
	}, []string{
		structureLabel,
	})

	treePoints = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vector_tiler_tree_points",
		Help: "The number of points inserted into trees.",
	}, []string{
		structureLabel,
	})

	carvedRegions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vector_tiler_carved_regions",
		Help: "The number of regions emitted by carves.",
	}, []string{
		structureLabel,
	})

	carveLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vector_tiler_carve_latency",
		Help:    "The time to build and carve a layer.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{
		structureLabel,
	})

	writtenFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vector_tiler_written_files",
		Help: "The number of output files written.",
	}, []string{
		outputLabel,
	})
)

func InstrumentBuild(structure string, points int) {
	treeBuilds.With(prometheus.Labels{
		structureLabel: structure,
	}).Inc()

	treePoints.With(prometheus.Labels{
		structureLabel: structure,
	}).Add(float64(points))
}

func InstrumentCarve(structure string, regions int, start time.Time) {
	carvedRegions.With(prometheus.Labels{
		structureLabel: structure,
	}).Add(float64(regions))

	carveLatency.With(prometheus.Labels{
		structureLabel: structure,
	}).Observe(time.Since(start).Seconds())
}

func InstrumentWrite(output string) {
	writtenFiles.With(prometheus.Labels{
		outputLabel: output,
	}).Inc()
}

// Dumps every registered metric in the text exposition format
func WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
