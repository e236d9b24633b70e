package simd

import (
	"fmt"
	"unsafe"

	"github.com/flier/simdttm/pkg/res"
	"github.com/flier/simdttm/pkg/xunsafe/layout"
)

// Alignment is the alignment, in bytes, guaranteed by AlignedAlloc: the
// width of one SSE vector register.
const Alignment = 16

// AlignedAlloc allocates a slice of n T values whose backing array starts
// at a 16-byte boundary, wrapped in a Result so allocation failure
// propagates as a value (§4.5, §7) rather than a panic.
//
// Go's allocator does not expose alignment guarantees below its size
// class boundaries directly, so this over-allocates by up to Alignment-1
// bytes and returns the aligned sub-slice.
func AlignedAlloc[T Numeric](n int) res.Result[[]T] {
	if n < 0 {
		return res.Err[[]T](fmt.Errorf("simd: AlignedAlloc: negative length %d", n))
	}

	if n == 0 {
		return res.Ok([]T{})
	}

	size := layout.Size[T]()

	raw := make([]byte, n*size+Alignment-1)

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	offset := layout.Padding(int(addr), Alignment)

	aligned := raw[offset : offset+n*size]

	return res.Ok(unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(aligned))), n))
}
