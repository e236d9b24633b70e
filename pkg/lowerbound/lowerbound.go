// Package lowerbound implements the N-way vectorized lower_bound
// primitive: a binary-search generalization that samples Lanes(K) pivots
// per step instead of one, driven by a single SIMD "greater-than" compare.
package lowerbound

import (
	"unsafe"

	"github.com/flier/simdttm/pkg/simd"
)

// scalarThreshold is the range length below which Find delegates to a
// plain scalar lower_bound instead of building a probe vector — below
// this size the fixed cost of a vector compare no longer pays for itself,
// and the tail end of every recursive narrowing needs a correct base case
// regardless of width.
const scalarThreshold = 32

// Find returns the first position p in [0, len(a)) with a[p] >= key, or
// len(a) if no such position exists. a must be sorted ascending by <.
//
// Duplicates of key resolve to the leftmost occurrence, and an empty
// slice always returns 0 (which equals len(a)).
func Find[T simd.Numeric](a []T, key T) int {
	return find(a, 0, len(a), key)
}

// find implements §4.1 over the half-open range [lo, hi) of a.
func find[T simd.Numeric](a []T, lo, hi int, key T) int {
	w := simd.Lanes[T]()

	for {
		n := hi - lo
		if n < w+1 || n <= scalarThreshold {
			return lo + scalarLowerBound(a[lo:hi], key)
		}

		step := n / (w + 1)

		probes := make([]T, w)
		for i := range probes {
			simd.Prefetch(unsafe.Pointer(&a[lo+(i+1)*step]))
		}
		for i := range probes {
			probes[i] = a[lo+(i+1)*step]
		}

		i := simd.GreaterFirstIndex(probes, key)
		// Probes equal to key sit past the leftmost match; step back over
		// them so the narrowed range still contains it.
		for i > 0 && !(probes[i-1] < key) {
			i--
		}
		if i == w {
			lo += w * step
			continue
		}

		newLo, newHi := lo+i*step, lo+(i+1)*step
		lo, hi = newLo, newHi
	}
}

// scalarLowerBound is the classical reference implementation used both as
// the small-range base case and as ground truth in tests.
func scalarLowerBound[T simd.Numeric](a []T, key T) int {
	lo, hi := 0, len(a)

	for lo < hi {
		mid := lo + (hi-lo)/2

		if a[mid] < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}
