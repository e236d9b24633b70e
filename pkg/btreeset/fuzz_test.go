package btreeset_test

import (
	"testing"

	"github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"

	"github.com/flier/simdttm/pkg/btreeset"
)

// randomKeys produces a random, possibly-duplicate-laden slice of int32
// keys using the same gofuzz.New().NumElements/Fuzz pattern
// celestiaorg/nmt's own fuzz suite uses to generate randomized input
// batches, seeded deterministically from seed so every run of `go test`
// covers the same sequences.
func randomKeys(seed int64, min, max int) []int32 {
	var keys []int32
	fuzz.NewWithSeed(seed).NumElements(min, max).Fuzz(&keys)
	return keys
}

func uniqueSorted(keys []int32) []int32 {
	seen := make(map[int32]bool, len(keys))
	var out []int32
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// TestFuzzSetSemantics drives property 4 (set semantics) and property 6
// (idempotent insert): inserting every key of a random batch, twice each,
// must leave contains(x) true for exactly the distinct keys inserted.
func TestFuzzSetSemantics(t *testing.T) {
	for round := int64(0); round < 30; round++ {
		keys := randomKeys(round, 0, 200)
		want := uniqueSorted(keys)

		s := btreeset.New[int32](8)
		for _, k := range keys {
			s.Insert(k)
			s.Insert(k)
		}

		assert.Equal(t, len(want), s.Len(), "round %d", round)
		for _, k := range want {
			assert.True(t, s.Contains(k), "round %d: missing %d", round, k)
		}
	}
}

// TestFuzzOrderedIteration drives property 5: in-order traversal of a
// randomly constructed tree is strictly ascending and covers exactly the
// inserted set, across a spread of capacities small enough to force
// splits routinely.
func TestFuzzOrderedIteration(t *testing.T) {
	caps := []int{4, 8, 16}

	for round := int64(0); round < 30; round++ {
		keys := randomKeys(round+1000, 0, 300)
		want := uniqueSorted(keys)
		cap := caps[round%int64(len(caps))]

		s := btreeset.New[int32](cap)
		for _, k := range keys {
			s.Insert(k)
		}

		var got []int32
		for k := range s.All() {
			got = append(got, k)
		}

		assert.Equal(t, want, got, "round %d cap %d", round, cap)
	}
}

// TestFuzzInsertEraseInverse drives property 7: inserting a random batch
// then erasing every distinct key it contained yields an empty, iterable
// set, checking ascending order after every single erase along the way.
func TestFuzzInsertEraseInverse(t *testing.T) {
	for round := int64(0); round < 20; round++ {
		keys := randomKeys(round+5000, 1, 150)
		want := uniqueSorted(keys)

		s := btreeset.New[int32](8)
		for _, k := range keys {
			s.Insert(k)
		}
		assert.Equal(t, len(want), s.Len(), "round %d", round)

		for _, k := range want {
			assert.True(t, s.Erase(k), "round %d: erase %d should report present", round, k)
			assert.False(t, s.Contains(k), "round %d: %d still present after erase", round, k)

			var prev int32
			first := true
			for got := range s.All() {
				if !first {
					assert.Less(t, prev, got, "round %d: order broken after erasing %d", round, k)
				}
				prev, first = got, false
			}
		}

		assert.Equal(t, 0, s.Len())
		var remaining []int32
		for k := range s.All() {
			remaining = append(remaining, k)
		}
		assert.Empty(t, remaining, "round %d: set must be empty", round)
	}
}
