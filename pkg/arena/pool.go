// Package arena provides a free-list id recycler for the fixed-capacity
// node slots a B-tree row grows over its lifetime.
//
// The teacher's original arena package built a byte-level allocator with
// its own reflection-based traceable shapes, because it needed to hand
// back untyped memory blocks to the garbage collector safely. Nodes here
// are concretely typed Go values from the start, so the GC already knows
// their shape; what a row actually needs is smaller and different: a way
// to reuse the integer id of a node emptied by a merge instead of letting
// its backing slices grow without bound. Pool is that free list, carrying
// no storage of its own — a caller pairs an id with its own parallel
// slices, the way [github.com/flier/simdttm/pkg/btreeset/row.Row] pairs
// one with its nodes, size, and next slices.
package arena

// Pool hands out small non-negative integer ids, recycling ids returned
// through Release (LIFO, so the most recently freed slot — the one most
// likely still warm in cache — is reused first) before minting new ones.
//
// A zero Pool is empty and ready to use.
type Pool struct {
	next int
	free []int
}

// Alloc returns an id: the most recently Released one if any are
// available, otherwise the next unminted id.
func (p *Pool) Alloc() int {
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]

		return id
	}

	id := p.next
	p.next++

	return id
}

// Release returns id to the pool for reuse by a future Alloc. Callers
// must clear whatever state they keep at id themselves; Pool tracks only
// the id's availability.
func (p *Pool) Release(id int) {
	p.free = append(p.free, id)
}

// Len returns the number of ids ever minted, including released ones —
// the length a caller's parallel backing slices must have.
func (p *Pool) Len() int { return p.next }

// Live returns the number of ids currently allocated (minted but not
// released).
func (p *Pool) Live() int { return p.next - len(p.free) }
