package simd

// GreaterFirstIndex returns the smallest lane index i in [0, len(v)) such
// that v[i] > k, or len(v) if no such lane exists.
//
// This single primitive is the "N-way decision" §2.2 describes: the
// lower_bound engine calls it once per probe vector, and a B-tree node's
// upper_bound calls it once per CAP/Lanes[K]() chunk. When len(v) equals
// Lanes[T](), one full 128-bit SSE register holds exactly v, so this
// dispatches to a hardware vector compare (see compare_amd64.go) for
// every one of the ten Numeric types; any other length — a short tail
// chunk, a non-amd64 build — runs the portable scalar loop below, which
// always yields the same answer.
func GreaterFirstIndex[T Numeric](v []T, k T) int {
	if len(v) == Lanes[T]() {
		if idx, ok := greaterFirstIndexVector(v, k); ok {
			return idx
		}
	}

	return greaterFirstIndexScalar(v, k)
}

func greaterFirstIndexScalar[T Numeric](v []T, k T) int {
	for i, x := range v {
		if x > k {
			return i
		}
	}

	return len(v)
}
