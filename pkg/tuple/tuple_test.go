package tuple_test

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	. "github.com/flier/simdttm/pkg/tuple"
)

func ExampleNew2() {
	t := New2("hello", 42)

	fmt.Println(t)
	fmt.Println(t.Unpack())

	// Output:
	// (hello, 42)
	// hello 42
}

func TestTuple(t *testing.T) {
	Convey("Given a Tuple2", t, func() {
		t := New2("hello", 42)

		So(t.String(), ShouldEqual, "(hello, 42)")

		Convey("Then unpack the tuple", func() {
			v0, v1 := t.Unpack()
			So(v0, ShouldEqual, "hello")
			So(v1, ShouldEqual, 42)
		})
	})
}
