//go:build amd64

package simd

import "unsafe"

// prefetchT0 issues a PREFETCHT0 hint for the cache line at p.
//
//go:noescape
func prefetchT0(p unsafe.Pointer)

// Prefetch advises the processor that the memory at p will be accessed
// soon. It carries no semantics beyond the hint (§2.2) — a build that
// ignores it is still correct, only possibly slower.
func Prefetch(p unsafe.Pointer) {
	prefetchT0(p)
}
