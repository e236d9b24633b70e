// Package simd is the SIMD capability layer shared by the lower_bound
// engine and the B-tree node implementation.
//
// It exposes exactly the primitives the rest of the library needs: a lane
// count per scalar type, a per-type sentinel (maximum) value, the single
// "greater_first_index" compare that drives every N-way branching step,
// an advisory prefetch hint, and a SIMD-aligned allocator. There is no
// runtime dispatch between backends — the lane compare has an accelerated
// SSE path on amd64 for every Numeric type (see compare_amd64.go/.s) and
// a portable scalar fallback everywhere else, chosen entirely at build
// time.
package simd
