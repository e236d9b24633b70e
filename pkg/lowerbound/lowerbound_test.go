package lowerbound_test

import (
	"math/rand/v2"
	"sort"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"

	"github.com/flier/simdttm/pkg/lowerbound"
)

func referenceLowerBound(a []int32, key int32) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= key })
}

func TestFindMatchesReference(t *testing.T) {
	Convey("Given a large sorted array of random int32", t, func() {
		rng := rand.New(rand.NewPCG(1, 2))

		a := make([]int32, 5000)
		for i := range a {
			a[i] = rng.Int32N(10000)
		}
		sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })

		Convey("Then Find agrees with the classical reference for every probe value", func() {
			for i := 0; i < 2000; i++ {
				key := rng.Int32N(10000)

				So(lowerbound.Find(a, key), ShouldEqual, referenceLowerBound(a, key))
			}
		})
	})
}

func TestFindEdgeCases(t *testing.T) {
	a := []int32{10, 20, 20, 20, 30, 40}

	assert.Equal(t, 0, lowerbound.Find(a, int32(0)), "key less than all elements")
	assert.Equal(t, len(a), lowerbound.Find(a, int32(100)), "key greater than all elements")
	assert.Equal(t, 1, lowerbound.Find(a, int32(20)), "leftmost of duplicates")
	assert.Equal(t, 0, lowerbound.Find([]int32{}, int32(5)), "empty range")
}

func TestFindAcrossWidths(t *testing.T) {
	Convey("Given sorted arrays of every supported scalar width", t, func() {
		u8 := make([]uint8, 200)
		for i := range u8 {
			u8[i] = uint8(i)
		}
		So(lowerbound.Find(u8, uint8(57)), ShouldEqual, 57)

		f64 := make([]float64, 500)
		for i := range f64 {
			f64[i] = float64(i) * 1.5
		}
		So(lowerbound.Find(f64, 300.0), ShouldEqual, 200)
	})
}
