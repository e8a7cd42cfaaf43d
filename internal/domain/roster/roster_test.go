package roster_test

import (
	"testing"

	"github.com/tmarren/peerweave/internal/domain/roster"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNameHelpers(t *testing.T) {
	Convey("NormalizeName title-cases tokens and tidies whitespace", t, func() {
		So(roster.NormalizeName("  jane   doe "), ShouldEqual, "Jane Doe")
		So(roster.NormalizeName("JANE DOE"), ShouldEqual, "Jane Doe")
		So(roster.NormalizeName("jane"), ShouldEqual, "Jane")
		So(roster.NormalizeName(""), ShouldEqual, "")
	})

	Convey("FlipName turns roster order into display order", t, func() {
		So(roster.FlipName("Doe, Jane"), ShouldEqual, "Jane Doe")
		So(roster.FlipName("Doe,Jane"), ShouldEqual, "Jane Doe")
		So(roster.FlipName("Jane Doe"), ShouldEqual, "Jane Doe")
	})

	Convey("LoginFromEmail keeps the case-folded local part", t, func() {
		So(roster.LoginFromEmail("JDoe@school.edu"), ShouldEqual, "jdoe")
		So(roster.LoginFromEmail("jdoe"), ShouldEqual, "jdoe")
		So(roster.LoginFromEmail(" JDoe @school.edu"), ShouldEqual, "jdoe")
	})
}

func TestRoster(t *testing.T) {
	Convey("Given a roster with two records", t, func() {
		ros := roster.New()
		So(ros.Add(&roster.Record{LoginID: "jdoe", Name: "Jane Doe", Section: "A"}), ShouldBeNil)
		So(ros.Add(&roster.Record{LoginID: "bsmith", Name: "Bob Smith", Section: "B"}), ShouldBeNil)

		Convey("Then lookups by login work", func() {
			rec, ok := ros.ByLogin("jdoe")
			So(ok, ShouldBeTrue)
			So(rec.Name, ShouldEqual, "Jane Doe")
		})

		Convey("And exact-name lookup matches only the exact spelling", func() {
			So(ros.ByName("Jane Doe"), ShouldHaveLength, 1)
			So(ros.ByName("jane doe"), ShouldHaveLength, 0)
		})

		Convey("And normalized-name lookup tolerates case and spacing", func() {
			So(ros.ByNormalizedName("jane   DOE"), ShouldHaveLength, 1)
		})

		Convey("And duplicate logins are rejected", func() {
			err := ros.Add(&roster.Record{LoginID: "jdoe", Name: "Other Jane"})
			So(err, ShouldWrap, roster.ErrDuplicateLogin)
		})

		Convey("And empty logins are rejected", func() {
			err := ros.Add(&roster.Record{Name: "No Login"})
			So(err, ShouldWrap, roster.ErrBadRecord)
		})

		Convey("When result columns are added", func() {
			ros.AddResultColumns([]string{"SE: Rating", "PE: N"})
			ros.AddResultColumns([]string{"PE: N"}) // re-add is a no-op

			Convey("Then the order is preserved without duplicates", func() {
				So(ros.ResultColumns(), ShouldResemble, []string{"SE: Rating", "PE: N"})
			})

			Convey("And every record starts at the missing marker", func() {
				rec, _ := ros.ByLogin("bsmith")
				So(rec.Result("SE: Rating").IsMissing(), ShouldBeTrue)
			})

			Convey("And written values read back typed", func() {
				rec, _ := ros.ByLogin("jdoe")
				rec.SetResult("SE: Rating", roster.Number(4.5))
				n, ok := rec.Result("SE: Rating").Float()
				So(ok, ShouldBeTrue)
				So(n, ShouldEqual, 4.5)
			})
		})
	})
}

func TestValue(t *testing.T) {
	Convey("Value distinguishes missing, zero, and empty text", t, func() {
		So(roster.Missing().IsMissing(), ShouldBeTrue)
		So(roster.Number(0).IsMissing(), ShouldBeFalse)
		So(roster.Text("").IsMissing(), ShouldBeFalse)

		_, ok := roster.Missing().Float()
		So(ok, ShouldBeFalse)
		_, ok = roster.Text("4").Float()
		So(ok, ShouldBeFalse)

		So(roster.Number(4.5).String(), ShouldEqual, "4.5")
		So(roster.Text("hi").String(), ShouldEqual, "hi")
		So(roster.Missing().String(), ShouldEqual, "")
	})
}
