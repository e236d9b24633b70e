package btreeset_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"

	"github.com/flier/simdttm/pkg/btreeset"
	"github.com/flier/simdttm/pkg/opt"
)

func collect[K int32 | float64](s *btreeset.BTreeSet[K]) []K {
	var out []K
	for k := range s.All() {
		out = append(out, k)
	}
	return out
}

func isAscending[K int32 | float64](keys []K) bool {
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			return false
		}
	}
	return true
}

func TestNewSetEmpty(t *testing.T) {
	s := btreeset.New[int32](4)

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(1))
	assert.Empty(t, collect(s))
}

func TestInsertAndContains(t *testing.T) {
	Convey("Given an empty set", t, func() {
		s := btreeset.New[int32](4)

		Convey("Inserting a key makes it a member", func() {
			s.Insert(42)

			So(s.Contains(42), ShouldBeTrue)
			So(s.Len(), ShouldEqual, 1)
		})

		Convey("Inserting the same key twice is a no-op the second time", func() {
			s.Insert(42)
			s.Insert(42)

			So(s.Len(), ShouldEqual, 1)
		})
	})
}

func TestOrderedIterationSmallSet(t *testing.T) {
	s := btreeset.New[int32](4)
	for _, k := range []int32{30, 10, 50, 20, 40} {
		s.Insert(k)
	}

	assert.Equal(t, []int32{10, 20, 30, 40, 50}, collect(s))
}

// TestOrderedIterationAcrossSplits forces a small-capacity tree through
// many splits, growing past a single root row, and checks that in-order
// traversal still visits every element exactly once in ascending order —
// the property that would break if internal-row keys were skipped.
func TestOrderedIterationAcrossSplits(t *testing.T) {
	const n = 200

	s := btreeset.New[int32](4)
	// Insert in an order unlikely to match final sort order, to exercise
	// shifts and splits at varied positions.
	for i := 0; i < n; i++ {
		k := int32((i * 37) % n)
		s.Insert(k)
	}

	assert.Equal(t, n, s.Len())

	got := collect(s)
	assert.Len(t, got, n)
	assert.True(t, isAscending(got), "traversal must be strictly ascending")

	for i := 0; i < n; i++ {
		assert.True(t, s.Contains(int32(i)), "missing key %d", i)
	}
}

func TestEraseRemovesElement(t *testing.T) {
	s := btreeset.New[int32](4)
	for _, k := range []int32{10, 20, 30, 40, 50} {
		s.Insert(k)
	}

	assert.True(t, s.Erase(30))
	assert.False(t, s.Contains(30))
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []int32{10, 20, 40, 50}, collect(s))
}

func TestEraseMissingKeyIsNoop(t *testing.T) {
	s := btreeset.New[int32](4)
	s.Insert(10)

	assert.False(t, s.Erase(999))
	assert.Equal(t, 1, s.Len())
}

// TestInsertEraseInverse drives a multi-level tree through a full
// insert-then-erase cycle, interleaving inserts and erases so the tree
// both grows past its root and shrinks back down, checking the ordering
// invariant and membership after every single mutation.
func TestInsertEraseInverse(t *testing.T) {
	const n = 150

	s := btreeset.New[int32](4)
	keys := make([]int32, n)
	for i := range keys {
		keys[i] = int32((i*73 + 11) % n)
	}

	for _, k := range keys {
		s.Insert(k)
		assert.True(t, isAscending(collect(s)))
	}
	assert.Equal(t, n, s.Len())

	for _, k := range keys {
		assert.True(t, s.Erase(k), "erase of %d should report present", k)
		assert.False(t, s.Contains(k))
		assert.True(t, isAscending(collect(s)))
	}

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, collect(s))
}

// TestEraseDescendingOrder exercises a different shrink pattern: removing
// the largest remaining key each time, which tends to unbalance the
// rightmost path of the tree and forces merges along it.
func TestEraseDescendingOrder(t *testing.T) {
	const n = 100

	s := btreeset.New[int32](4)
	for i := int32(0); i < n; i++ {
		s.Insert(i)
	}

	for i := int32(n - 1); i >= 0; i-- {
		assert.True(t, s.Erase(i))
		assert.Equal(t, int(i), s.Len())
		assert.True(t, isAscending(collect(s)))
	}
}

// TestEraseInternalSeparator inserts enough keys to grow a multi-level
// tree, then erases keys across the whole range, which is highly likely
// to hit at least one key currently held as a live separator in an
// internal row rather than a leaf — the path that exercises predecessor
// swapping and the bounded cascade at the swapped-from child.
func TestEraseInternalSeparator(t *testing.T) {
	const n = 120

	s := btreeset.New[int32](4)
	for i := int32(0); i < n; i++ {
		s.Insert(i)
	}

	for i := int32(0); i < n; i += 3 {
		assert.True(t, s.Erase(i))
	}

	got := collect(s)
	assert.True(t, isAscending(got))

	for i := int32(0); i < n; i++ {
		want := i%3 != 0
		assert.Equal(t, want, s.Contains(i), "key %d", i)
	}
}

func TestNaNRejected(t *testing.T) {
	s := btreeset.New[float64](4)

	result := s.TryInsert(math.NaN())

	assert.True(t, result.IsErr())
	assert.Equal(t, 0, s.Len())
}

func TestLargeCapacitySingleNode(t *testing.T) {
	s := btreeset.New[int32](btreeset.DefaultCap)
	for _, k := range []int32{5, 3, 1, 4, 2} {
		s.Insert(k)
	}

	assert.Equal(t, []int32{1, 2, 3, 4, 5}, collect(s))
}

func TestMinMaxEmpty(t *testing.T) {
	s := btreeset.New[int32](4)

	assert.Equal(t, opt.None[int32](), s.Min())
	assert.Equal(t, opt.None[int32](), s.Max())
}

func TestMinMaxAcrossSplitsAndErases(t *testing.T) {
	s := btreeset.New[int32](4)
	for _, k := range []int32{50, 10, 90, 30, 70, 20, 80, 40, 60} {
		s.Insert(k)
	}

	assert.Equal(t, opt.Some(int32(10)), s.Min())
	assert.Equal(t, opt.Some(int32(90)), s.Max())

	s.Erase(10)
	s.Erase(90)

	assert.Equal(t, opt.Some(int32(20)), s.Min())
	assert.Equal(t, opt.Some(int32(80)), s.Max())
}

func TestAllStopsEarly(t *testing.T) {
	s := btreeset.New[int32](4)
	for _, k := range []int32{1, 2, 3, 4, 5} {
		s.Insert(k)
	}

	var seen []int32
	for k := range s.All() {
		seen = append(seen, k)
		if k == 3 {
			break
		}
	}

	assert.Equal(t, []int32{1, 2, 3}, seen)
}
