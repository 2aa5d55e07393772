package tree

import (
	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/rand"
)

// Default seed used when none is configured
const DefaultSeed = "4cdfe1e5-1fdd-4cf0-8cf3-31f757f69d44"

// Returns a PCG generator whose state is fully determined by the seed string
func NewRandom(seed string) *rand.Rand {
	return rand.New(rand.NewSource(xxhash.Sum64String(seed)))
}
