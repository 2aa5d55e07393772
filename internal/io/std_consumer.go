package io

import (
	"fmt"
	"sync"

	"github.com/ecopia-map/vector_tiler/internal/mesh"
	"github.com/ecopia-map/vector_tiler/internal/svg"
	"github.com/golang/glog"
)

// Continually consumes WorkUnits until the channel is closed, handing each one to doWork. On
// error submits it to the error channel and quits.
func consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup, doWork func(*WorkUnit) error) {
	defer waitGroup.Done()
	for work := range workchan {
		if err := doWork(work); err != nil {
			errchan <- err
			glog.Errorf("consumer quitting on region %d: %v", work.Index, err)
			// keep draining so the producer never blocks
			for range workchan {
			}
			return
		}
	}
}

func checkWork(work *WorkUnit, results int) error {
	if work.Index < 0 || work.Index >= results {
		return fmt.Errorf("region %d out of the %d result slots", work.Index, results)
	}
	if work.Region.Polygon.IsEmpty() || work.Region.Node == nil {
		return fmt.Errorf("region %d of layer %d has no geometry", work.Index, work.Layer)
	}
	return nil
}

// Renders regions into SVG path elements. Results are stored at the work unit index, so the
// slice can be shared by many consumers.
type SvgConsumer struct {
	precision int
	results   [][]*svg.Element
}

func NewSvgConsumer(precision int, results [][]*svg.Element) *SvgConsumer {
	return &SvgConsumer{
		precision: precision,
		results:   results,
	}
}

func (c *SvgConsumer) Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup) {
	consume(workchan, errchan, waitGroup, c.doWork)
}

func (c *SvgConsumer) doWork(work *WorkUnit) error {
	if err := checkWork(work, len(c.results)); err != nil {
		return err
	}
	c.results[work.Index] = svg.NewElements(work.Index, work.Region, c.precision)
	return nil
}

// Triangulates regions into meshes stored at the work unit index
type MeshConsumer struct {
	builder *mesh.Builder
	results []*mesh.Mesh
}

func NewMeshConsumer(builder *mesh.Builder, results []*mesh.Mesh) *MeshConsumer {
	return &MeshConsumer{
		builder: builder,
		results: results,
	}
}

func (c *MeshConsumer) Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup) {
	consume(workchan, errchan, waitGroup, c.doWork)
}

func (c *MeshConsumer) doWork(work *WorkUnit) error {
	if err := checkWork(work, len(c.results)); err != nil {
		return err
	}
	c.results[work.Index] = c.builder.Region(work.Region)
	return nil
}
