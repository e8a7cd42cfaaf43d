package schema_test

import (
	"testing"

	"github.com/tmarren/peerweave/internal/domain/schema"

	. "github.com/smartystreets/goconvey/convey"
)

func surveyMap() *schema.Map {
	return schema.New([]schema.Entry{
		{Role: "general", Category: "", Label: "Timestamp", Column: "q0"},
		{Role: "self", Category: "name", Label: "Name", Column: "q1"},
		{Role: "self", Category: "email", Label: "Email", Column: "q2"},
		{Role: "self", Category: "rating", Label: "Quality", Column: "q3"},
		{Role: "self", Category: "comments", Label: "Self comments", Column: "q4"},
		{Role: "peer1", Category: "name", Label: "Name", Column: "q5"},
		{Role: "peer1", Category: "rating", Label: "Quality", Column: "q6"},
		{Role: "peer1", Category: "comments", Label: "Peer comments", Column: "q7"},
		{Role: "peer2", Category: "name", Label: "Name", Column: "q8"},
		{Role: "peer2", Category: "rating", Label: "Quality", Column: "q9"},
		{Role: "peer2", Category: "comments", Label: "Peer comments", Column: "q10"},
		{Role: "notpeer", Category: "rating", Label: "Decoy", Column: "q11"},
		{Role: "self", Category: "rating", Label: "", Column: "q12"}, // unlabeled
	})
}

func TestLookups(t *testing.T) {
	Convey("Given a survey map", t, func() {
		m := surveyMap()

		Convey("Then self labels skip unlabeled entries", func() {
			So(m.Labels(schema.RoleSelf, schema.CategoryRating), ShouldResemble, []string{"Quality"})
		})

		Convey("And category matching is substring (comment ~ comments)", func() {
			So(m.Labels("peer1", schema.CategoryComment), ShouldResemble, []string{"Peer comments"})
		})

		Convey("And category any returns everything for the role", func() {
			So(m.Columns("peer1", schema.CategoryAny), ShouldResemble, []string{"q5", "q6", "q7"})
		})

		Convey("And the peer query fans out to every slot but not notpeer", func() {
			So(m.Columns(schema.RolePeer, schema.CategoryRating), ShouldResemble, []string{"q6", "q9"})
		})

		Convey("And prefix decorates labels only", func() {
			So(m.Labels(schema.RoleSelf, schema.CategoryRating, schema.WithPrefix("SE")),
				ShouldResemble, []string{"SE: Quality"})
			So(m.Columns(schema.RoleSelf, schema.CategoryRating), ShouldResemble, []string{"q3", "q12"})
		})

		Convey("And suffix renders the (avg) form", func() {
			So(m.Labels("peer1", schema.CategoryRating, schema.WithSuffix("avg")),
				ShouldResemble, []string{"Quality (avg)"})
		})

		Convey("And unique lookup succeeds for the email column", func() {
			col, err := m.UniqueColumn(schema.RoleSelf, schema.CategoryEmail)
			So(err, ShouldBeNil)
			So(col, ShouldEqual, "q2")
		})

		Convey("And unique lookup fails when absent", func() {
			_, err := m.UniqueColumn("general", schema.CategoryEmail)
			So(err, ShouldWrap, schema.ErrColumnNotFound)
		})

		Convey("And unique lookup fails when ambiguous", func() {
			_, err := m.UniqueColumn(schema.RolePeer, schema.CategoryName)
			So(err, ShouldWrap, schema.ErrColumnAmbiguous)
		})
	})
}

func TestPeerSlots(t *testing.T) {
	Convey("Given a survey map", t, func() {
		m := surveyMap()

		Convey("Then peer slots enumerate sorted and deduplicated", func() {
			So(m.PeerSlots(), ShouldResemble, []string{"peer1", "peer2"})
		})

		Convey("And the first slot is the smallest", func() {
			first, err := m.FirstPeerSlot()
			So(err, ShouldBeNil)
			So(first, ShouldEqual, "peer1")
		})
	})

	Convey("Given a map without peer slots", t, func() {
		m := schema.New([]schema.Entry{{Role: "self", Category: "name", Label: "Name"}})

		Convey("Then FirstPeerSlot errors", func() {
			_, err := m.FirstPeerSlot()
			So(err, ShouldWrap, schema.ErrColumnNotFound)
		})
	})
}

func TestBindColumns(t *testing.T) {
	Convey("Given a two-entry map", t, func() {
		m := schema.New([]schema.Entry{
			{Role: "self", Category: "name", Label: "Name"},
			{Role: "self", Category: "email", Label: "Email"},
		})

		Convey("When binding matching headers", func() {
			So(m.BindColumns([]string{"Your name", "Your email"}), ShouldBeNil)

			Convey("Then columns are rebound positionally", func() {
				So(m.Columns(schema.RoleSelf, schema.CategoryEmail), ShouldResemble, []string{"Your email"})
			})
		})

		Convey("When binding the wrong number of headers", func() {
			err := m.BindColumns([]string{"only one"})
			So(err, ShouldWrap, schema.ErrShapeMismatch)
		})
	})
}
