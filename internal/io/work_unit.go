package io

import "github.com/ecopia-map/vector_tiler/internal/tree"

// Contains the data needed to render a single carved region. Index is the position of the region
// in the concatenation of all layer carvings and is where consumers store their result.
type WorkUnit struct {
	Index  int
	Layer  int
	Region tree.Region
}
