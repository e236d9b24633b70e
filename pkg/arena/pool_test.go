package arena_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/simdttm/pkg/arena"
)

func TestPoolMintsSequentialIds(t *testing.T) {
	Convey("Given an empty pool", t, func() {
		p := &arena.Pool{}

		Convey("Alloc mints increasing ids with no free list", func() {
			So(p.Alloc(), ShouldEqual, 0)
			So(p.Alloc(), ShouldEqual, 1)
			So(p.Alloc(), ShouldEqual, 2)
			So(p.Len(), ShouldEqual, 3)
			So(p.Live(), ShouldEqual, 3)
		})
	})
}

func TestPoolRecyclesReleasedIds(t *testing.T) {
	Convey("Given a pool with three minted ids", t, func() {
		p := &arena.Pool{}
		p.Alloc()
		p.Alloc()
		p.Alloc()

		Convey("Releasing one and allocating again reuses it before minting a new id", func() {
			p.Release(1)

			So(p.Alloc(), ShouldEqual, 1)
			So(p.Len(), ShouldEqual, 3)

			So(p.Alloc(), ShouldEqual, 3)
			So(p.Len(), ShouldEqual, 4)
		})

		Convey("Live reflects outstanding ids, not minted ones", func() {
			p.Release(0)
			p.Release(2)

			So(p.Live(), ShouldEqual, 1)
			So(p.Len(), ShouldEqual, 3)
		})
	})
}
