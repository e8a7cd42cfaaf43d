package lexicon_test

import (
	"math"
	"testing"

	"github.com/tmarren/peerweave/internal/domain/lexicon"
	"github.com/tmarren/peerweave/internal/domain/table"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPoints(t *testing.T) {
	Convey("Given a lexicon", t, func() {
		lex := lexicon.New(map[string]float64{"Excellent": 5, "Good": 4})

		Convey("Then known labels convert", func() {
			pts, ok, err := lex.Points("Excellent")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(pts, ShouldEqual, 5)
		})

		Convey("And missing tokens report absent without error", func() {
			_, ok, err := lex.Points("NA")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			_, ok, err = lex.Points("")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("And unknown labels are an error, never a default", func() {
			_, _, err := lex.Points("Stellar")
			So(err, ShouldWrap, lexicon.ErrUnknownLabel)
			So(err.Error(), ShouldContainSubstring, "Stellar")
		})
	})

	Convey("Given a lexicon with a custom missing set", t, func() {
		lex := lexicon.New(map[string]float64{"Good": 4},
			lexicon.WithMissingSet(table.NewMissingSet("skip")))

		Convey("Then only the custom token is absent", func() {
			_, ok, err := lex.Points("skip")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			_, _, err = lex.Points("NA")
			So(err, ShouldWrap, lexicon.ErrUnknownLabel)
		})
	})
}

func TestConvert(t *testing.T) {
	Convey("Given a lexicon", t, func() {
		lex := lexicon.New(map[string]float64{"Excellent": 5, "Good": 4})

		Convey("When converting a block with a missing cell", func() {
			out, err := lex.Convert([][]string{
				{"Excellent", "Good"},
				{"NA", "Excellent"},
			})
			So(err, ShouldBeNil)

			Convey("Then shape is preserved and missing becomes NaN", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0], ShouldResemble, []float64{5, 4})
				So(math.IsNaN(out[1][0]), ShouldBeTrue)
				So(out[1][1], ShouldEqual, 5)
			})
		})

		Convey("When converting a block with an unknown label", func() {
			_, err := lex.Convert([][]string{{"Mediocre"}})
			So(err, ShouldWrap, lexicon.ErrUnknownLabel)
		})
	})
}
