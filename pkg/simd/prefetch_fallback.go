//go:build !amd64

package simd

import "unsafe"

// Prefetch is a no-op advisory hint on architectures without a dedicated
// prefetch instruction wired in. It carries no semantics beyond the hint
// (§2.2), so this is always correct.
func Prefetch(p unsafe.Pointer) {}
