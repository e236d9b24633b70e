package simd

import (
	"math"

	"github.com/flier/simdttm/pkg/xunsafe/layout"
)

// Numeric is the set of scalar types a lower_bound range or a B-tree key
// may hold: signed/unsigned integers of 8 through 64 bits, and IEEE
// floats of 32 and 64 bits.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Lanes returns the compile-time lane count for T: the number of T-sized
// values that fit in one 128-bit SSE vector. This is the W in the N-way
// branching step (§4.1): a probe vector always holds Lanes[T]() pivots.
func Lanes[T Numeric]() int {
	if size := layout.Size[T](); size > 0 {
		return 16 / size
	}
	return 1
}

// Sentinel returns MAX_K, the per-type maximum value used to pad unused
// node slots. It is defined for the ten predeclared numeric types in the
// Numeric union; a T whose underlying type is one of them but which is
// itself a distinct defined type (e.g. "type Weight int32") matches none
// of the cases of the type switch below and panics — Go has no way to
// produce "the maximum value of an arbitrary type parameter" from a
// constant alone, so a named key type must be exactly one of the cases
// below.
func Sentinel[T Numeric]() T {
	var zero T

	switch any(zero).(type) {
	case int8:
		var v any = int8(math.MaxInt8)
		return v.(T)
	case int16:
		var v any = int16(math.MaxInt16)
		return v.(T)
	case int32:
		var v any = int32(math.MaxInt32)
		return v.(T)
	case int64:
		var v any = int64(math.MaxInt64)
		return v.(T)
	case uint8:
		var v any = uint8(math.MaxUint8)
		return v.(T)
	case uint16:
		var v any = uint16(math.MaxUint16)
		return v.(T)
	case uint32:
		var v any = uint32(math.MaxUint32)
		return v.(T)
	case uint64:
		var v any = uint64(math.MaxUint64)
		return v.(T)
	case float32:
		var v any = float32(math.MaxFloat32)
		return v.(T)
	case float64:
		var v any = float64(math.MaxFloat64)
		return v.(T)
	default:
		panic("simd: Sentinel: unsupported key type")
	}
}

// IsNaN reports whether v is a floating-point NaN. It is always false for
// integer key types.
func IsNaN[T Numeric](v T) bool {
	switch x := any(v).(type) {
	case float32:
		return math.IsNaN(float64(x))
	case float64:
		return math.IsNaN(x)
	default:
		return false
	}
}
