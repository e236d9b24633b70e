//go:build amd64

package simd

import "unsafe"

// compareBytes16 computes, for 16 signed bytes v and a broadcast key k,
// the smallest lane index i such that v[i] > k, or 16 if none. Implemented
// in compare_amd64.s using a single SSE2 PCMPGTB/PMOVMSKB/BSF sequence.
//
//go:noescape
func compareBytes16(v *[16]byte, k byte) int

// compareBytesU16 is compareBytes16's unsigned counterpart: the same
// PCMPGTB sequence over both operands biased by the sign bit.
//
//go:noescape
func compareBytesU16(v *[16]byte, k byte) int

// compareWords8 is compareBytes16's 16-bit counterpart: 8 signed words
// compared with PCMPGTW.
//
//go:noescape
func compareWords8(v *[8]uint16, k uint16) int

// compareWordsU8 is compareWords8's unsigned counterpart.
//
//go:noescape
func compareWordsU8(v *[8]uint16, k uint16) int

// compareDwords4 is compareBytes16's 32-bit counterpart: 4 signed dwords
// compared with PCMPGTD.
//
//go:noescape
func compareDwords4(v *[4]uint32, k uint32) int

// compareDwordsU4 is compareDwords4's unsigned counterpart.
//
//go:noescape
func compareDwordsU4(v *[4]uint32, k uint32) int

// compareQwords2 is compareBytes16's 64-bit counterpart: 2 signed qwords
// compared with PCMPGTQ (SSE4.2).
//
//go:noescape
func compareQwords2(v *[2]uint64, k uint64) int

// compareQwordsU2 is compareQwords2's unsigned counterpart.
//
//go:noescape
func compareQwordsU2(v *[2]uint64, k uint64) int

// compareFloats4 computes the same "first index greater than k" answer
// as the integer compares, over 4 packed singles via CMPPS.
//
//go:noescape
func compareFloats4(v *[4]float32, k float32) int

// compareDoubles2 is compareFloats4's double-precision counterpart.
//
//go:noescape
func compareDoubles2(v *[2]float64, k float64) int

// greaterFirstIndexVector is the hardware-accelerated fast path for
// GreaterFirstIndex. GreaterFirstIndex only calls it once len(v) is
// already known to equal Lanes[T](), so every one of the ten Numeric
// cases below has a dedicated SSE sequence; the type switch exists only
// to route to the right width and signedness, not to filter out any of
// them. A T that satisfies Numeric through a distinct defined type (e.g.
// "type Weight int32") matches none of the cases, reports ok=false, and
// the caller falls back to the portable scalar loop.
func greaterFirstIndexVector[T Numeric](v []T, k T) (int, bool) {
	switch vv := any(v).(type) {
	case []int8:
		kk := any(k).(int8)
		bv := (*[16]byte)(unsafe.Pointer(&vv[0]))
		return compareBytes16(bv, byte(kk)), true

	case []uint8:
		kk := any(k).(uint8)
		bv := (*[16]byte)(unsafe.Pointer(&vv[0]))
		return compareBytesU16(bv, kk), true

	case []int16:
		kk := any(k).(int16)
		wv := (*[8]uint16)(unsafe.Pointer(&vv[0]))
		return compareWords8(wv, uint16(kk)), true

	case []uint16:
		kk := any(k).(uint16)
		wv := (*[8]uint16)(unsafe.Pointer(&vv[0]))
		return compareWordsU8(wv, kk), true

	case []int32:
		kk := any(k).(int32)
		dv := (*[4]uint32)(unsafe.Pointer(&vv[0]))
		return compareDwords4(dv, uint32(kk)), true

	case []uint32:
		kk := any(k).(uint32)
		dv := (*[4]uint32)(unsafe.Pointer(&vv[0]))
		return compareDwordsU4(dv, kk), true

	case []int64:
		kk := any(k).(int64)
		qv := (*[2]uint64)(unsafe.Pointer(&vv[0]))
		return compareQwords2(qv, uint64(kk)), true

	case []uint64:
		kk := any(k).(uint64)
		qv := (*[2]uint64)(unsafe.Pointer(&vv[0]))
		return compareQwordsU2(qv, kk), true

	case []float32:
		kk := any(k).(float32)
		fv := (*[4]float32)(unsafe.Pointer(&vv[0]))
		return compareFloats4(fv, kk), true

	case []float64:
		kk := any(k).(float64)
		dv := (*[2]float64)(unsafe.Pointer(&vv[0]))
		return compareDoubles2(dv, kk), true

	default:
		return 0, false
	}
}
