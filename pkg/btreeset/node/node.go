// Package node implements a single B-tree node: a fixed-capacity,
// sentinel-padded array of keys with the intra-node operations described
// in §4.2 — upper_bound, insert, remove, split, and merge.
package node

import (
	"unsafe"

	"github.com/flier/simdttm/internal/debug"
	"github.com/flier/simdttm/pkg/res"
	"github.com/flier/simdttm/pkg/simd"
)

// Node is a fixed-capacity block of CAP keys. Slots [0, size) are live
// and strictly ascending; slots [size, CAP) always hold the type's
// sentinel (maximum) value. size itself is not stored on Node — every
// row.Row tracks it per physical node, since Node only implements the
// pure key-array operations.
type Node[K simd.Numeric] struct {
	Keys []K
}

// TryNew allocates a node of the given capacity, fully padded with the
// sentinel value, backed by simd.AlignedAlloc rather than a plain make —
// the node array is what UpperBound feeds to GreaterFirstIndex a whole
// chunk at a time, so it needs to start on a SIMD-width boundary. cap
// must be a positive power-of-two multiple of Lanes[K](); Go's generic
// constraints cannot express that relationship at compile time; violating
// it is a debug-mode assertion rather than the compile error the
// distilled spec describes for type preconditions.
func TryNew[K simd.Numeric](cap int) res.Result[*Node[K]] {
	debug.Assert(cap > 0 && cap%simd.Lanes[K]() == 0,
		"node capacity %d must be a positive multiple of lane count %d", cap, simd.Lanes[K]())

	alloc := simd.AlignedAlloc[K](cap)
	if alloc.IsErr() {
		return res.Err[*Node[K]](alloc.Err)
	}

	n := &Node[K]{Keys: *alloc.Value}
	n.fill(0, cap)

	return res.Ok(n)
}

// New is TryNew, panicking on allocation failure. Every caller in this
// module sizes its rows from a fixed capacity known to fit, so the
// allocation failure TryNew reports never occurs in practice; New exists
// so those callers aren't forced to thread a Result through code that
// cannot meaningfully handle the error.
func New[K simd.Numeric](cap int) *Node[K] {
	result := TryNew[K](cap)
	if result.IsErr() {
		panic(result.Err)
	}

	return *result.Value
}

// Cap returns the node's fixed capacity.
func (n *Node[K]) Cap() int { return len(n.Keys) }

// Reset pads every slot back to the sentinel, readying a recycled node
// for reuse by a future split.
func (n *Node[K]) Reset() { n.fill(0, len(n.Keys)) }

// UpperBound returns the count of keys <= k: the position at which a key
// greater than k (and greater than every key equal to k) would be
// inserted. It walks the node's SIMD chunks, accumulating
// GreaterFirstIndex until a chunk contains the boundary — the sentinel
// tail guarantees one always does before the loop runs past Cap().
func (n *Node[K]) UpperBound(k K) int {
	w := simd.Lanes[K]()
	pos := 0

	for pos < len(n.Keys) {
		if next := pos + w; next < len(n.Keys) {
			simd.Prefetch(unsafe.Pointer(&n.Keys[next]))
		}

		chunk := n.Keys[pos : pos+w]

		i := simd.GreaterFirstIndex(chunk, k)
		pos += i

		if i < w {
			return pos
		}
	}

	return pos
}

// Insert shifts keys in [pos, size) right by one and writes k at pos.
// Callers must ensure size < Cap() before calling.
func (n *Node[K]) Insert(k K, pos, size int) {
	copy(n.Keys[pos+1:size+1], n.Keys[pos:size])
	n.Keys[pos] = k
}

// Remove captures keys[pos], shifts (pos, size) left by one, pads the
// freed slot with the sentinel, and returns the removed key.
func (n *Node[K]) Remove(pos, size int) K {
	removed := n.Keys[pos]

	copy(n.Keys[pos:size-1], n.Keys[pos+1:size])
	n.Keys[size-1] = simd.Sentinel[K]()

	return removed
}

// Split divides a full node (size == Cap()) in two to make room for a new
// key k whose computed insertion position is pos, following the three
// cases of §4.2 selected by pos relative to Cap()/2. other receives half
// of the keys; the returned pushup key is the one that must be inserted
// into the parent row. Both this and other end at size Cap()/2.
func (n *Node[K]) Split(other *Node[K], k K, pos int) (pushup K) {
	cap := len(n.Keys)
	half := cap / 2

	switch {
	case pos < half:
		copy(other.Keys[0:half], n.Keys[half:cap])

		pushup = n.Keys[half-1]

		copy(n.Keys[pos+1:half], n.Keys[pos:half-1])
		n.Keys[pos] = k

	case pos > half:
		pushup = n.Keys[half]

		copy(other.Keys[0:cap-half-1], n.Keys[half+1:cap])

		rel := pos - half - 1
		copy(other.Keys[rel+1:half], other.Keys[rel:half-1])
		other.Keys[rel] = k

	default: // pos == half
		copy(other.Keys[0:half], n.Keys[half:cap])

		pushup = k
	}

	n.fill(half, cap)
	other.fill(half, cap)

	return pushup
}

// Merge appends sep followed by other's live keys onto this node (which
// must have room: thisSize+1+otherSize <= Cap()), then clears other to
// the sentinel.
func (n *Node[K]) Merge(other *Node[K], sep K, thisSize, otherSize int) {
	n.Keys[thisSize] = sep
	copy(n.Keys[thisSize+1:thisSize+1+otherSize], other.Keys[0:otherSize])

	other.fill(0, len(other.Keys))
}

// fill pads Keys[from:to] with the sentinel value.
func (n *Node[K]) fill(from, to int) {
	sentinel := simd.Sentinel[K]()
	for i := from; i < to; i++ {
		n.Keys[i] = sentinel
	}
}
