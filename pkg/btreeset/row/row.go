// Package row implements one level of a B-tree: a free-list-backed pool
// of nodes plus the logical-to-physical translation (§4.3) that keeps
// in-order node access cheap despite splits and merges.
package row

import (
	"fmt"

	"github.com/flier/simdttm/internal/debug"
	"github.com/flier/simdttm/pkg/arena"
	"github.com/flier/simdttm/pkg/btreeset/node"
	"github.com/flier/simdttm/pkg/simd"
	"github.com/flier/simdttm/pkg/tuple"
)

// End marks the tail of a row's next chain.
const End = -1

// Mode is the outcome of an Insert or Remove call.
type Mode int

const (
	// NodeOnly means the mutation was absorbed entirely within one node;
	// no change is needed at the parent level.
	NodeOnly Mode = iota
	// ShiftLeft means a key moved across the left separator; the parent
	// must overwrite that separator with the returned payload.
	ShiftLeft
	// ShiftRight is ShiftLeft's mirror image on the right sibling.
	ShiftRight
	// SplitNode means the node was divided in two; the parent must insert
	// the returned pushup key.
	SplitNode
	// NotFound means Remove's key was absent; nothing changed.
	NotFound
	// NodeOnlyUnderflow means the node fell under CAP/2 but the row
	// tolerates it (reserved for the root row).
	NodeOnlyUnderflow
	// MergeLeft means the node was folded into its left sibling, which
	// consumed the left separator; the parent must remove that separator.
	MergeLeft
	// MergeRight is MergeLeft's mirror image on the right sibling.
	MergeRight
)

// OutOfRangeError reports a logical id outside [0, Len()). It is the
// "programmer error" of §4.5/§7: callers see it as an ordinary error
// value, recoverable with [github.com/flier/simdttm/pkg/xerrors.AsA], but
// it signals a bug in the caller, not a data condition.
type OutOfRangeError struct {
	LNID, Len int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("row: logical id %d out of range [0, %d)", e.LNID, e.Len)
}

// Row owns one level of a B-tree: a free-list-recycled pool of
// fixed-capacity nodes, their live sizes, the next-physical-id chain
// that links them in order, and xmap, the in-order linearization of
// that chain.
type Row[K simd.Numeric] struct {
	cap    int
	isLeaf bool

	pool arena.Pool

	nodes []*node.Node[K]
	size  []int
	next  []int
	xmap  []int
}

// New creates a row with a single empty node as both physical id 0 and
// the sole logical entry.
func New[K simd.Numeric](cap int, isLeaf bool) *Row[K] {
	r := &Row[K]{cap: cap, isLeaf: isLeaf}

	p := r.pool.Alloc()
	r.nodes = append(r.nodes, node.New[K](cap))
	r.size = append(r.size, 0)
	r.next = append(r.next, End)
	r.xmap = []int{p}

	return r
}

// allocPhysical returns a physical id ready to hold a node, reusing one
// released by a prior merge when available instead of growing the
// backing slices further.
func (r *Row[K]) allocPhysical() int {
	id := r.pool.Alloc()

	if id == len(r.nodes) {
		r.nodes = append(r.nodes, node.New[K](r.cap))
		r.size = append(r.size, 0)
		r.next = append(r.next, End)

		return id
	}

	r.nodes[id].Reset()
	r.size[id] = 0
	r.next[id] = End

	return id
}

// IsLeaf reports whether this row is the tree's leaf level.
func (r *Row[K]) IsLeaf() bool { return r.isLeaf }

// Len returns the number of logical nodes in the row.
func (r *Row[K]) Len() int { return len(r.xmap) }

// Size returns the live key count of the logical node at lnid.
func (r *Row[K]) Size(lnid int) int {
	r.checkRange(lnid)
	return r.size[r.xmap[lnid]]
}

// Key returns the key at index idx within the logical node at lnid —
// used by the tree to read separators out of a parent row's node.
func (r *Row[K]) Key(lnid, idx int) K {
	r.checkRange(lnid)
	return r.nodes[r.xmap[lnid]].Keys[idx]
}

// SetKey overwrites the key at index idx within the logical node at
// lnid — used by the tree to rewrite a separator in place after a shift.
func (r *Row[K]) SetKey(lnid, idx int, key K) {
	r.checkRange(lnid)
	r.nodes[r.xmap[lnid]].Keys[idx] = key
}

// SeedRoot initializes a freshly created row (meant to become the new
// root) to hold exactly one key: the pushup key from a root split.
func (r *Row[K]) SeedRoot(key K) {
	r.nodes[0].Keys[0] = key
	r.size[0] = 1
}

// UpperBound walks to the logical node at lnid and returns its
// UpperBound(key) along with whether key is an exact match in that node.
func (r *Row[K]) UpperBound(lnid int, key K) (pos int, found bool) {
	r.checkRange(lnid)

	p := r.xmap[lnid]
	pos = r.nodes[p].UpperBound(key)
	found = pos > 0 && r.nodes[p].Keys[pos-1] == key

	return pos, found
}

// CountBefore sums the live key counts of every logical node before lnid,
// used by the tree to translate a within-node position into a child's
// logical id.
func (r *Row[K]) CountBefore(lnid int) int {
	r.checkRange(lnid)

	total := 0
	for i := 0; i < lnid; i++ {
		total += r.size[r.xmap[i]]
	}

	return total
}

// Insert places key into the logical node at lnid, splitting or
// borrowing room from a sibling as needed (§4.3). mayShiftLeft and
// mayShiftRight must each be false unless the corresponding neighbor in
// the row is a genuine sibling under this node's own parent — a row
// spans every node at a tree depth, not just one parent's children, so
// the row itself cannot tell a true sibling from an unrelated neighbor
// left over from a different subtree. The caller (the tree, which knows
// the parent) supplies that answer. At the root, both are always false.
func (r *Row[K]) Insert(lnid int, key K, mayShiftLeft, mayShiftRight bool, leftSep, rightSep K) tuple.Tuple2[Mode, K] {
	r.checkRange(lnid)

	var zero K

	p := r.xmap[lnid]
	pos := r.nodes[p].UpperBound(key)

	if r.size[p] < r.cap {
		r.nodes[p].Insert(key, pos, r.size[p])
		r.size[p]++

		return tuple.New2(NodeOnly, zero)
	}

	if mayShiftLeft && lnid > 0 {
		leftP := r.xmap[lnid-1]
		if r.size[leftP] < r.cap {
			return tuple.New2(ShiftLeft, r.shiftLeft(p, leftP, key, pos, leftSep))
		}
	}

	if mayShiftRight && lnid+1 < len(r.xmap) {
		rightP := r.xmap[lnid+1]
		if r.size[rightP] < r.cap {
			return tuple.New2(ShiftRight, r.shiftRight(p, rightP, key, pos, rightSep))
		}
	}

	oldNext := r.next[p]
	q := r.allocPhysical()
	r.next[q] = oldNext
	r.next[p] = q

	pushup := r.nodes[p].Split(r.nodes[q], key, pos)

	half := r.cap / 2
	r.size[p] = half
	r.size[q] = half

	r.rebuildXmapFrom(lnid)

	return tuple.New2(SplitNode, pushup)
}

// shiftLeft evicts p's first key into the returned new separator, moves
// leftSep onto the end of the left sibling, and inserts key into p.
func (r *Row[K]) shiftLeft(p, leftP int, key K, pos int, leftSep K) K {
	leftSize := r.size[leftP]
	r.nodes[leftP].Insert(leftSep, leftSize, leftSize)
	r.size[leftP]++

	if pos == 0 {
		return key
	}

	newSep := r.nodes[p].Remove(0, r.size[p])
	r.size[p]--

	insPos := pos - 1
	if insPos < 0 {
		insPos = 0
	}

	r.nodes[p].Insert(key, insPos, r.size[p])
	r.size[p]++

	return newSep
}

// shiftRight is shiftLeft's mirror on the right sibling.
func (r *Row[K]) shiftRight(p, rightP int, key K, pos int, rightSep K) K {
	if pos == r.size[p] {
		r.nodes[rightP].Insert(rightSep, 0, r.size[rightP])
		r.size[rightP]++

		return key
	}

	newSep := r.nodes[p].Remove(r.size[p]-1, r.size[p])
	r.size[p]--

	r.nodes[rightP].Insert(rightSep, 0, r.size[rightP])
	r.size[rightP]++

	insPos := pos
	if insPos > r.size[p] {
		insPos = r.size[p]
	}

	r.nodes[p].Insert(key, insPos, r.size[p])
	r.size[p]++

	return newSep
}

// Remove deletes key from the logical node at lnid, borrowing from or
// merging with a sibling to restore the CAP/2 floor as needed (§4.3).
// allowUnderflow suppresses rebalancing entirely (reserved for the root
// row, which tolerates an undersized single node). mayBorrowLeft and
// mayBorrowRight carry the same same-parent eligibility the tree
// computes for Insert's mayShiftLeft/mayShiftRight — a neighbor only
// one row over might belong to an entirely different parent, and
// borrowing or merging across that boundary would corrupt the tree.
func (r *Row[K]) Remove(lnid int, key K, allowUnderflow, mayBorrowLeft, mayBorrowRight bool, leftSep, rightSep K) tuple.Tuple2[Mode, K] {
	r.checkRange(lnid)

	var zero K

	p := r.xmap[lnid]
	pos := r.nodes[p].UpperBound(key)

	if pos == 0 || r.nodes[p].Keys[pos-1] != key {
		return tuple.New2(NotFound, zero)
	}

	r.nodes[p].Remove(pos-1, r.size[p])
	r.size[p]--

	return r.rebalance(lnid, allowUnderflow, mayBorrowLeft, mayBorrowRight, leftSep, rightSep)
}

// RemoveAt removes the key at the explicit index idx within the logical
// node at lnid, bypassing Remove's key search. The tree uses this when it
// already knows the position directly: demoting an internal separator it
// just deleted down into a freshly merged child.
func (r *Row[K]) RemoveAt(lnid, idx int) K {
	r.checkRange(lnid)

	p := r.xmap[lnid]
	v := r.nodes[p].Remove(idx, r.size[p])
	r.size[p]--

	return v
}

// Rebalance restores the CAP/2 floor at lnid after a caller has already
// removed a key from it directly — via RemoveAt, or because a child row
// just consumed one of its separators in a merge — without needing Remove
// to locate and remove a key itself. Its parameters mirror Remove's.
func (r *Row[K]) Rebalance(lnid int, allowUnderflow, mayBorrowLeft, mayBorrowRight bool, leftSep, rightSep K) tuple.Tuple2[Mode, K] {
	r.checkRange(lnid)

	return r.rebalance(lnid, allowUnderflow, mayBorrowLeft, mayBorrowRight, leftSep, rightSep)
}

func (r *Row[K]) rebalance(lnid int, allowUnderflow, mayBorrowLeft, mayBorrowRight bool, leftSep, rightSep K) tuple.Tuple2[Mode, K] {
	var zero K

	p := r.xmap[lnid]
	half := r.cap / 2

	if r.size[p] >= half {
		return tuple.New2(NodeOnly, zero)
	}

	if allowUnderflow {
		return tuple.New2(NodeOnlyUnderflow, zero)
	}

	if mayBorrowLeft && lnid > 0 {
		leftP := r.xmap[lnid-1]
		if r.size[leftP] > half {
			return tuple.New2(ShiftLeft, r.borrowLeft(p, leftP, leftSep))
		}
	}

	if mayBorrowRight && lnid+1 < len(r.xmap) {
		rightP := r.xmap[lnid+1]
		if r.size[rightP] > half {
			return tuple.New2(ShiftRight, r.borrowRight(p, rightP, rightSep))
		}
	}

	if mayBorrowLeft && lnid > 0 {
		leftP := r.xmap[lnid-1]
		r.nodes[leftP].Merge(r.nodes[p], leftSep, r.size[leftP], r.size[p])
		r.size[leftP] = r.size[leftP] + 1 + r.size[p]
		r.size[p] = 0
		r.next[leftP] = r.next[p]
		r.pool.Release(p)

		r.rebuildXmapFrom(lnid - 1)

		return tuple.New2(MergeLeft, zero)
	}

	debug.Assert(mayBorrowRight && lnid+1 < len(r.xmap),
		"row: underflow at lnid %d with no eligible sibling in either direction", lnid)

	rightP := r.xmap[lnid+1]
	r.nodes[p].Merge(r.nodes[rightP], rightSep, r.size[p], r.size[rightP])
	r.size[p] = r.size[p] + 1 + r.size[rightP]
	r.size[rightP] = 0
	r.next[p] = r.next[rightP]
	r.pool.Release(rightP)

	r.rebuildXmapFrom(lnid)

	return tuple.New2(MergeRight, zero)
}

// borrowLeft rotates the left sibling's last key up through leftSep into
// p, returning leftSibling's evicted key as the new separator.
func (r *Row[K]) borrowLeft(p, leftP int, leftSep K) K {
	borrowed := r.nodes[leftP].Remove(r.size[leftP]-1, r.size[leftP])
	r.size[leftP]--

	r.nodes[p].Insert(leftSep, 0, r.size[p])
	r.size[p]++

	return borrowed
}

// borrowRight is borrowLeft's mirror on the right sibling.
func (r *Row[K]) borrowRight(p, rightP int, rightSep K) K {
	borrowed := r.nodes[rightP].Remove(0, r.size[rightP])
	r.size[rightP]--

	r.nodes[p].Insert(rightSep, r.size[p], r.size[p])
	r.size[p]++

	return borrowed
}

// rebuildXmapFrom re-walks the next chain starting at the physical node
// currently at lnid, replacing xmap with a fresh slice that keeps
// xmap[:lnid] and appends the walked chain after it. This is the only
// step a split, merge, or borrow needs to keep xmap in sync, and costs
// O(nodes to the right of lnid).
func (r *Row[K]) rebuildXmapFrom(lnid int) {
	debug.Assert(lnid >= 0 && lnid < len(r.xmap), "rebuildXmapFrom: lnid %d out of range", lnid)

	rebuilt := append([]int{}, r.xmap[:lnid]...)

	for pn := r.xmap[lnid]; pn != End; pn = r.next[pn] {
		rebuilt = append(rebuilt, pn)
	}

	r.xmap = rebuilt
}

func (r *Row[K]) checkRange(lnid int) {
	if lnid < 0 || lnid >= len(r.xmap) {
		panic(&OutOfRangeError{LNID: lnid, Len: len(r.xmap)})
	}
}
