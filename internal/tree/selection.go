package tree

import "golang.org/x/exp/rand"

// Rearranges idx in place so that idx[k] holds the element that would be at position k if idx was
// sorted by key, every element before k has a key <= and every element after has a key >=.
// Expected linear time, pivots are drawn from rng. Equal keys are grouped with a three-way
// partition so inputs made only of ties terminate in one pass.
func Select(idx []int, k int, key func(i int) float64, rng *rand.Rand) {
	if k < 0 || k >= len(idx) {
		panic("tree: selection index out of range")
	}
	lo, hi := 0, len(idx)-1
	for lo < hi {
		pivot := key(idx[lo+rng.Intn(hi-lo+1)])

		// [lo,lt) < pivot, [lt,i) == pivot, (gt,hi] > pivot
		lt, i, gt := lo, lo, hi
		for i <= gt {
			v := key(idx[i])
			switch {
			case v < pivot:
				idx[lt], idx[i] = idx[i], idx[lt]
				lt++
				i++
			case v > pivot:
				idx[i], idx[gt] = idx[gt], idx[i]
				gt--
			default:
				i++
			}
		}

		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return
		}
	}
}

// Stable in-place partition: elements satisfying pred are moved first, keeping their relative order
// as well as the relative order of the others. Returns the number of elements satisfying pred.
func Partition(idx []int, pred func(i int) bool) int {
	buf := make([]int, 0, len(idx))
	n := 0
	for _, v := range idx {
		if pred(v) {
			idx[n] = v
			n++
		} else {
			buf = append(buf, v)
		}
	}
	copy(idx[n:], buf)
	return n
}
