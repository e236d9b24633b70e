// Package btreeset implements an ordered set over a SIMD-accelerated
// B-tree: component E of the design, tying a stack of row.Row levels
// together into full Insert/Contains/Erase/iteration operations (§4.4).
//
// A tree with n rows has rows[0] as its root and rows[n-1] as its leaf
// level; every row in between is an internal level whose keys are real
// set members as well as separators bounding the children on either
// side — this is a classical B-tree, not a B+-tree, so in-order
// traversal must visit internal keys too, not just the leaf row.
package btreeset

import (
	"fmt"
	"iter"

	"github.com/flier/simdttm/pkg/btreeset/row"
	"github.com/flier/simdttm/pkg/opt"
	"github.com/flier/simdttm/pkg/res"
	"github.com/flier/simdttm/pkg/simd"
)

// DefaultCap is the node capacity used by NewDefault when the caller has no
// reason to pick their own; it is a generous multiple of every
// supported key type's lane count.
const DefaultCap = 256

// BTreeSet is an ordered set of K built on a stack of B-tree rows.
// The zero value is not usable; construct one with New or NewDefault.
type BTreeSet[K simd.Numeric] struct {
	cap  int
	rows []*row.Row[K]
	size int
}

// New creates an empty set whose nodes hold up to cap keys. cap must be
// a positive multiple of simd.Lanes[K](); see row.New/node.New.
func New[K simd.Numeric](cap int) *BTreeSet[K] {
	return &BTreeSet[K]{
		cap:  cap,
		rows: []*row.Row[K]{row.New[K](cap, true)},
	}
}

// NewDefault creates an empty set using DefaultCap.
func NewDefault[K simd.Numeric]() *BTreeSet[K] {
	return New[K](DefaultCap)
}

// Len returns the number of elements currently in the set.
func (s *BTreeSet[K]) Len() int { return s.size }

// Cap returns the node capacity the set was constructed with.
func (s *BTreeSet[K]) Cap() int { return s.cap }

// pathEntry records, for one row along a descent, the logical node
// visited and the position UpperBound(key) returned there.
type pathEntry struct {
	lnid int
	pos  int
}

// descend walks from the root to the row holding key (or to the leaf, if
// key is absent), translating each row's position into the next row's
// logical id via count_before(lnid) + lnid + pos: each of the lnid
// sibling nodes preceding the target contributes size+1 children, not
// just size, since every live key in a node also bounds one more child
// than the key count alone would suggest.
func (s *BTreeSet[K]) descend(key K) (path []pathEntry, found bool) {
	path = make([]pathEntry, len(s.rows))
	lnid := 0

	for i, r := range s.rows {
		pos, hit := r.UpperBound(lnid, key)
		path[i] = pathEntry{lnid: lnid, pos: pos}

		if hit {
			return path[:i+1], true
		}

		if i < len(s.rows)-1 {
			lnid = r.CountBefore(lnid) + lnid + pos
		}
	}

	return path, false
}

// descendExtreme extends the prefix of path below rowIdx (already fixed
// by an earlier descend) from (rowIdx, lnid) down to the leaf, always
// taking the rightmost child (rightmost=true, yielding the maximum key
// of the subtree — the in-order predecessor of whatever bounds it from
// above) or the leftmost child (rightmost=false, the in-order
// successor).
func (s *BTreeSet[K]) descendExtreme(prefix []pathEntry, rowIdx, lnid int, rightmost bool) []pathEntry {
	full := make([]pathEntry, len(s.rows))
	copy(full, prefix[:rowIdx])

	for i := rowIdx; i < len(s.rows); i++ {
		r := s.rows[i]

		pos := 0
		if rightmost {
			pos = r.Size(lnid)
		}

		full[i] = pathEntry{lnid: lnid, pos: pos}

		if i < len(s.rows)-1 {
			lnid = r.CountBefore(lnid) + lnid + pos
		}
	}

	return full
}

// levelContext derives the same-parent eligibility and separator values
// row i needs from the direct parent's recorded path entry — one level
// up always suffices, since the parent alone knows which neighbor in
// row i is a true sibling. At the root (i == 0) both directions are
// ineligible, matching Insert/Remove's root handling.
func (s *BTreeSet[K]) levelContext(path []pathEntry, i int) (leftSep, rightSep K, mayLeft, mayRight bool) {
	if i == 0 {
		return leftSep, rightSep, false, false
	}

	parent := path[i-1]
	parentRow := s.rows[i-1]
	parentSize := parentRow.Size(parent.lnid)

	mayLeft = parent.pos > 0
	mayRight = parent.pos < parentSize

	if mayLeft {
		leftSep = parentRow.Key(parent.lnid, parent.pos-1)
	}
	if mayRight {
		rightSep = parentRow.Key(parent.lnid, parent.pos)
	}

	return leftSep, rightSep, mayLeft, mayRight
}

// Contains reports whether key is a member of the set.
func (s *BTreeSet[K]) Contains(key K) bool {
	_, found := s.descend(key)
	return found
}

// TryInsert adds key to the set, reporting whether it was newly added.
// It rejects NaN keys with an error instead of inserting them, since NaN
// compares unordered against every key and would violate the tree's
// ordering invariants; Insert is the silent convenience wrapper for
// callers that don't need to distinguish that case from "already
// present".
func (s *BTreeSet[K]) TryInsert(key K) res.Result[bool] {
	if simd.IsNaN(key) {
		return res.Err[bool](fmt.Errorf("btreeset: NaN keys are not ordered"))
	}

	return res.Ok(s.insert(key))
}

// Insert adds key to the set. Inserting an already-present key, or a
// NaN, is a silent no-op.
func (s *BTreeSet[K]) Insert(key K) {
	_ = s.TryInsert(key)
}

func (s *BTreeSet[K]) insert(key K) bool {
	path, found := s.descend(key)
	if found {
		return false
	}

	leafIdx := len(path) - 1
	carry := key

	for i := leafIdx; i >= 0; i-- {
		leftSep, rightSep, mayLeft, mayRight := s.levelContext(path, i)
		mode, payload := s.rows[i].Insert(path[i].lnid, carry, mayLeft, mayRight, leftSep, rightSep).Unpack()

		switch mode {
		case row.NodeOnly:
			s.size++
			return true

		case row.ShiftLeft:
			s.rows[i-1].SetKey(path[i-1].lnid, path[i-1].pos-1, payload)
			s.size++
			return true

		case row.ShiftRight:
			s.rows[i-1].SetKey(path[i-1].lnid, path[i-1].pos, payload)
			s.size++
			return true

		case row.SplitNode:
			carry = payload

			if i == 0 {
				s.growRoot(carry)
				s.size++
				return true
			}
		}
	}

	panic("btreeset: insert ascent fell off the root")
}

// growRoot prepends a fresh, single-key root row above the current
// rows[0], which a root-level split leaves needing a parent.
func (s *BTreeSet[K]) growRoot(pushup K) {
	newRoot := row.New[K](s.cap, false)
	newRoot.SeedRoot(pushup)

	rows := make([]*row.Row[K], 0, len(s.rows)+1)
	rows = append(rows, newRoot)
	rows = append(rows, s.rows...)
	s.rows = rows
}

// Erase removes key from the set, reporting whether it was present.
func (s *BTreeSet[K]) Erase(key K) bool {
	path, found := s.descend(key)
	if !found {
		return false
	}

	foundIdx := len(path) - 1
	leafIdx := len(s.rows) - 1

	if foundIdx == leafIdx {
		s.eraseLeaf(path)
	} else {
		s.eraseInternal(path, foundIdx)
	}

	s.size--
	s.collapseRoot()

	return true
}

// eraseLeaf removes the key found at the bottom of path (the leaf row)
// and propagates any resulting underflow all the way up to the root.
func (s *BTreeSet[K]) eraseLeaf(path []pathEntry) {
	s.eraseLeafTo(path, 0)
}

// eraseLeafTo removes the key at the bottom of path and walks the
// resulting chain of merges upward, stopping once it reaches row stop
// without asking stop to rebalance itself. For eraseLeaf (stop == 0,
// the true root) that is simply correct: the root tolerates underflow.
// eraseInternal also uses this with stop set to the row just below the
// key it is erasing, since only it — not this generic walk — knows which
// neighbor of stop is the found key's own other child.
func (s *BTreeSet[K]) eraseLeafTo(path []pathEntry, stop int) {
	i := len(path) - 1
	key := s.rows[i].Key(path[i].lnid, path[i].pos-1)

	leftSep, rightSep, mayLeft, mayRight := s.levelContext(path, i)
	mode, payload := s.rows[i].Remove(path[i].lnid, key, i == stop, mayLeft, mayRight, leftSep, rightSep).Unpack()

	for {
		switch mode {
		case row.NodeOnly, row.NodeOnlyUnderflow:
			return

		case row.ShiftLeft:
			s.rows[i-1].SetKey(path[i-1].lnid, path[i-1].pos-1, payload)
			return

		case row.ShiftRight:
			s.rows[i-1].SetKey(path[i-1].lnid, path[i-1].pos, payload)
			return

		case row.MergeLeft, row.MergeRight:
			var idx int
			if mode == row.MergeLeft {
				idx = path[i-1].pos - 1
			} else {
				idx = path[i-1].pos
			}

			i--
			s.rows[i].RemoveAt(path[i].lnid, idx)

			if i == stop {
				return
			}

			leftSep, rightSep, mayLeft, mayRight = s.levelContext(path, i)
			mode, payload = s.rows[i].Rebalance(path[i].lnid, i == stop, mayLeft, mayRight, leftSep, rightSep).Unpack()
		}
	}
}

// cascade restores the CAP/2 floor at row i after one of its keys was
// just consumed by the caller directly, walking further up through any
// chain of merges this triggers.
func (s *BTreeSet[K]) cascade(path []pathEntry, i int) {
	for i >= 0 {
		leftSep, rightSep, mayLeft, mayRight := s.levelContext(path, i)
		mode, payload := s.rows[i].Rebalance(path[i].lnid, i == 0, mayLeft, mayRight, leftSep, rightSep).Unpack()

		switch mode {
		case row.ShiftLeft:
			s.rows[i-1].SetKey(path[i-1].lnid, path[i-1].pos-1, payload)
			return

		case row.ShiftRight:
			s.rows[i-1].SetKey(path[i-1].lnid, path[i-1].pos, payload)
			return

		case row.MergeLeft:
			idx := path[i-1].pos - 1
			i--
			s.rows[i].RemoveAt(path[i].lnid, idx)

		case row.MergeRight:
			idx := path[i-1].pos
			i--
			s.rows[i].RemoveAt(path[i].lnid, idx)

		default:
			return
		}
	}
}

// eraseInternal removes the key held as a live element of an internal
// row, at path[foundIdx]. Classical B-tree deletion by predecessor swap:
// find the in-order predecessor along the rightmost chain of the found
// key's left child, remove it from its leaf, and write it into the found
// key's old slot.
//
// The predecessor's removal is bounded at childRow rather than left to
// cascade freely: childRow's true siblings, from the found key's own
// row's point of view, are the found key's left and right children, not
// whatever levelContext would derive from path (which still describes
// the right child's position, since path was built searching for the
// found key itself, not descending past it). leftPath corrects that one
// entry so every row below it addresses the left child's true siblings.
// Once the predecessor is in place, childRow's own possible underflow —
// at most one key below CAP/2, since exactly one key was ever removed
// from it — is resolved by cascade using the freshly written separator,
// which is by then an entirely ordinary rebalance with nothing left to
// special-case.
func (s *BTreeSet[K]) eraseInternal(path []pathEntry, foundIdx int) {
	lnid := path[foundIdx].lnid
	pos := path[foundIdx].pos
	childRow := foundIdx + 1
	leftLnid := s.rows[foundIdx].CountBefore(lnid) + lnid + (pos - 1)

	leftPath := append([]pathEntry(nil), path[:foundIdx+1]...)
	leftPath[foundIdx].pos = pos - 1

	predPath := s.descendExtreme(leftPath, childRow, leftLnid, true)
	predLeaf := s.rows[len(s.rows)-1]
	predLnid := predPath[len(predPath)-1].lnid
	predValue := predLeaf.Key(predLnid, predLeaf.Size(predLnid)-1)

	s.eraseLeafTo(predPath, childRow)
	s.rows[foundIdx].SetKey(lnid, pos-1, predValue)
	s.cascade(predPath, childRow)
}

// collapseRoot drops the root row whenever its single node has emptied
// out, promoting the next row down to root. This can cascade at most
// rows[0].Size(0) == 0 once per level, but the loop handles the general
// case defensively.
func (s *BTreeSet[K]) collapseRoot() {
	for len(s.rows) > 1 && s.rows[0].Size(0) == 0 {
		s.rows = s.rows[1:]
	}
}

// All returns an in-order iterator over the set's elements.
func (s *BTreeSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		s.visit(0, 0, yield)
	}
}

// Min returns the smallest element of the set, or None if it is empty.
func (s *BTreeSet[K]) Min() opt.Option[K] { return s.extreme(false) }

// Max returns the largest element of the set, or None if it is empty.
func (s *BTreeSet[K]) Max() opt.Option[K] { return s.extreme(true) }

// extreme descends to the leftmost or rightmost leaf key via the same
// descendExtreme walk eraseInternal uses to locate a predecessor, rather
// than a dedicated recursion, since root-to-leaf is all either needs.
func (s *BTreeSet[K]) extreme(rightmost bool) opt.Option[K] {
	if s.size == 0 {
		return opt.None[K]()
	}

	path := s.descendExtreme(nil, 0, 0, rightmost)
	last := path[len(path)-1]
	r := s.rows[len(s.rows)-1]

	idx := 0
	if rightmost {
		idx = r.Size(last.lnid) - 1
	}

	return opt.Some(r.Key(last.lnid, idx))
}

// visit performs a classical B-tree in-order walk of the subtree rooted
// at (rowIdx, lnid): child, key, child, key, ..., key, child — since
// internal rows hold real set members, not just separators, skipping
// them would drop elements from the traversal.
func (s *BTreeSet[K]) visit(rowIdx, lnid int, yield func(K) bool) bool {
	r := s.rows[rowIdx]
	size := r.Size(lnid)
	leaf := rowIdx == len(s.rows)-1

	childBase := 0
	if !leaf {
		childBase = r.CountBefore(lnid) + lnid
	}

	for i := 0; i < size; i++ {
		if !leaf {
			if !s.visit(rowIdx+1, childBase+i, yield) {
				return false
			}
		}

		if !yield(r.Key(lnid, i)) {
			return false
		}
	}

	if !leaf {
		if !s.visit(rowIdx+1, childBase+size, yield) {
			return false
		}
	}

	return true
}
