package io

import (
	"sync"

	"github.com/ecopia-map/vector_tiler/internal/tree"
)

type StandardProducer struct{}

func NewStandardProducer() *StandardProducer {
	return &StandardProducer{}
}

// Submits a WorkUnit per region, layers in order and regions in carving order. Closes the channel
// when all work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup, carvings []*tree.Carving) {
	index := 0
	for layer, carving := range carvings {
		if carving == nil {
			continue
		}
		for _, region := range carving.Regions {
			work <- &WorkUnit{
				Index:  index,
				Layer:  layer,
				Region: region,
			}
			index++
		}
	}
	close(work)
	wg.Done()
}

// Total number of work units the producer submits for the carvings
func CountRegions(carvings []*tree.Carving) int {
	n := 0
	for _, carving := range carvings {
		if carving != nil {
			n += len(carving.Regions)
		}
	}
	return n
}
