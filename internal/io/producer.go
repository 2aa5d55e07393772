package io

import (
	"sync"

	"github.com/ecopia-map/vector_tiler/internal/tree"
)

type Producer interface {
	Produce(work chan *WorkUnit, wg *sync.WaitGroup, carvings []*tree.Carving)
}

type Consumer interface {
	Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup)
}
