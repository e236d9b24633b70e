//go:build !amd64

package simd

// greaterFirstIndexVector reports ok=false unconditionally on
// architectures without the SSE compare paths; GreaterFirstIndex
// always falls back to the portable scalar loop there.
func greaterFirstIndexVector[T Numeric](v []T, k T) (int, bool) {
	return 0, false
}
