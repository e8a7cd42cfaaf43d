package prompt_test

import (
	"context"
	"testing"

	"github.com/tmarren/peerweave/internal/adapters/prompt"
	"github.com/tmarren/peerweave/internal/domain/resolve"

	. "github.com/smartystreets/goconvey/convey"
)

func TestScripted(t *testing.T) {
	ctx := context.Background()

	Convey("Given a scripted prompter with two answers", t, func() {
		p := prompt.NewScripted("Jane Doe", "NA")

		Convey("When asked repeatedly", func() {
			first, err := p.Ask(ctx, resolve.Query{Info: resolve.Info{Subject: "J. Doe"}})
			So(err, ShouldBeNil)
			second, err := p.Ask(ctx, resolve.Query{})
			So(err, ShouldBeNil)

			Convey("Then answers replay in order", func() {
				So(first, ShouldEqual, "Jane Doe")
				So(second, ShouldEqual, "NA")
			})

			Convey("And every query is recorded for assertions", func() {
				So(p.Queries, ShouldHaveLength, 2)
				So(p.Queries[0].Subject, ShouldEqual, "J. Doe")
			})

			Convey("And running dry is an error", func() {
				_, err := p.Ask(ctx, resolve.Query{})
				So(err, ShouldWrap, prompt.ErrExhausted)
			})
		})
	})
}

func TestSkipAll(t *testing.T) {
	Convey("Given the skip-all prompter", t, func() {
		var p prompt.SkipAll

		Convey("Then every query gets the skip token", func() {
			answer, err := p.Ask(context.Background(), resolve.Query{Rejected: "whoever"})
			So(err, ShouldBeNil)
			So(answer, ShouldEqual, "NA")
		})
	})
}
