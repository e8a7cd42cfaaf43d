package table_test

import (
	"testing"

	"github.com/tmarren/peerweave/internal/domain/table"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFrame(t *testing.T) {
	Convey("Given a frame with three columns", t, func() {
		f := table.NewFrame([]string{"a", "b", "c"})

		Convey("Then headers come back in order", func() {
			So(f.Headers(), ShouldResemble, []string{"a", "b", "c"})
			So(f.Len(), ShouldEqual, 0)
		})

		Convey("When appending a full row", func() {
			So(f.AppendRow([]string{"1", "2", "3"}), ShouldBeNil)

			Convey("Then cells are addressable by header", func() {
				v, err := f.Cell(0, "b")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "2")
			})

			Convey("And unknown columns error", func() {
				_, err := f.Cell(0, "nope")
				So(err, ShouldWrap, table.ErrUnknownColumn)
			})

			Convey("And out-of-range rows error", func() {
				_, err := f.Cell(5, "a")
				So(err, ShouldWrap, table.ErrShape)
			})
		})

		Convey("When appending a short row", func() {
			So(f.AppendRow([]string{"only"}), ShouldBeNil)

			Convey("Then the remainder is blank", func() {
				v, err := f.Cell(0, "c")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "")
			})
		})

		Convey("When appending a row that is too long", func() {
			err := f.AppendRow([]string{"1", "2", "3", "4"})
			So(err, ShouldWrap, table.ErrShape)
		})

		Convey("When selecting columns for a row", func() {
			So(f.AppendRow([]string{"1", "2", "3"}), ShouldBeNil)
			vals, err := f.Select(0, []string{"c", "a"})
			So(err, ShouldBeNil)
			So(vals, ShouldResemble, []string{"3", "1"})
		})
	})
}

func TestMissingSet(t *testing.T) {
	Convey("Given the default missing set", t, func() {
		m := table.DefaultMissingSet()

		Convey("Then all NA spellings and blanks count as missing", func() {
			for _, tok := range []string{"NA", "na", "N/A", "n/a", "N/a", "nan", "", "  "} {
				So(m.Has(tok), ShouldBeTrue)
			}
		})

		Convey("And real values do not", func() {
			So(m.Has("Nathan"), ShouldBeFalse)
			So(m.Has("0"), ShouldBeFalse)
		})
	})

	Convey("Given a custom missing set", t, func() {
		m := table.NewMissingSet("skip", "")

		Convey("Then only its tokens count", func() {
			So(m.Has("skip"), ShouldBeTrue)
			So(m.Has("NA"), ShouldBeFalse)
		})
	})
}
