package resolve_test

import (
	"context"
	"testing"

	"github.com/tmarren/peerweave/internal/adapters/prompt"
	"github.com/tmarren/peerweave/internal/domain/resolve"
	"github.com/tmarren/peerweave/internal/domain/roster"

	. "github.com/smartystreets/goconvey/convey"
)

func classRoster() *roster.Roster {
	ros := roster.New()
	for _, rec := range []*roster.Record{
		{LoginID: "jdoe", Name: "Jane Doe", Section: "A"},
		{LoginID: "bsmith", Name: "Bob Smith", Section: "A"},
		{LoginID: "jdoe2", Name: "Jane Doe", Section: "B"}, // same display name
	} {
		So(ros.Add(rec), ShouldBeNil)
	}
	return ros
}

func TestAutomaticStrategies(t *testing.T) {
	ctx := context.Background()

	Convey("Given a roster and a resolver without a prompter", t, func() {
		ros := classRoster()
		r := resolve.NewResolver()

		Convey("Then an email resolves through the login id", func() {
			res, err := r.Resolve(ctx, resolve.Info{Email: "BSmith@school.edu"}, ros)
			So(err, ShouldBeNil)
			login, ok := res.Login()
			So(ok, ShouldBeTrue)
			So(login, ShouldEqual, "bsmith")
		})

		Convey("And a unique exact name resolves", func() {
			res, err := r.Resolve(ctx, resolve.Info{Name: "Bob Smith"}, ros)
			So(err, ShouldBeNil)
			login, _ := res.Login()
			So(login, ShouldEqual, "bsmith")
		})

		Convey("And a sloppy name resolves through normalization", func() {
			res, err := r.Resolve(ctx, resolve.Info{Name: "  bob   SMITH "}, ros)
			So(err, ShouldBeNil)
			login, _ := res.Login()
			So(login, ShouldEqual, "bsmith")
		})

		Convey("And an ambiguous name is never picked arbitrarily", func() {
			res, err := r.Resolve(ctx, resolve.Info{Name: "Jane Doe"}, ros)
			So(err, ShouldBeNil)
			So(res.IsSkipped(), ShouldBeTrue)
		})

		Convey("And an unknown identity skips when no prompter exists", func() {
			res, err := r.Resolve(ctx, resolve.Info{Name: "Nobody Here"}, ros)
			So(err, ShouldBeNil)
			So(res.IsSkipped(), ShouldBeTrue)
		})

		Convey("And resolution is deterministic", func() {
			first, err := r.Resolve(ctx, resolve.Info{Email: "jdoe@school.edu"}, ros)
			So(err, ShouldBeNil)
			second, err := r.Resolve(ctx, resolve.Info{Email: "jdoe@school.edu"}, ros)
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})

		Convey("And the subject name wins over the respondent name", func() {
			res, err := r.Resolve(ctx, resolve.Info{Name: "Jane Doe", Subject: "Bob Smith"}, ros)
			So(err, ShouldBeNil)
			login, _ := res.Login()
			So(login, ShouldEqual, "bsmith")
		})

		Convey("And the respondent email never identifies a named subject", func() {
			res, err := r.Resolve(ctx, resolve.Info{
				Email:   "jdoe@school.edu",
				Name:    "Jane Doe",
				Subject: "Bob Smith",
			}, ros)
			So(err, ShouldBeNil)
			login, _ := res.Login()
			So(login, ShouldEqual, "bsmith")
		})
	})
}

func TestInteractiveFallback(t *testing.T) {
	ctx := context.Background()

	Convey("Given a roster", t, func() {
		ros := classRoster()

		Convey("When the operator answers with a roster name", func() {
			p := prompt.NewScripted("Bob Smith")
			r := resolve.NewResolver(resolve.WithPrompter(p))

			res, err := r.Resolve(ctx, resolve.Info{Name: "Bobby S"}, ros)
			So(err, ShouldBeNil)
			login, _ := res.Login()
			So(login, ShouldEqual, "bsmith")

			Convey("Then the query carried the identifying context", func() {
				So(p.Queries, ShouldHaveLength, 1)
				So(p.Queries[0].Name, ShouldEqual, "Bobby S")
			})
		})

		Convey("When the operator first mistypes", func() {
			p := prompt.NewScripted("Bob Smyth", "Bob Smith")
			r := resolve.NewResolver(resolve.WithPrompter(p))

			res, err := r.Resolve(ctx, resolve.Info{Name: "???"}, ros)
			So(err, ShouldBeNil)
			login, _ := res.Login()
			So(login, ShouldEqual, "bsmith")

			Convey("Then the retry query names the rejected answer", func() {
				So(p.Queries, ShouldHaveLength, 2)
				So(p.Queries[1].Rejected, ShouldEqual, "Bob Smyth")
			})
		})

		Convey("When the operator skips with any NA spelling", func() {
			for _, token := range []string{"NA", "na", "N/a"} {
				r := resolve.NewResolver(resolve.WithPrompter(prompt.NewScripted(token)))
				res, err := r.Resolve(ctx, resolve.Info{Name: "???"}, ros)
				So(err, ShouldBeNil)
				So(res.IsSkipped(), ShouldBeTrue)
			}
		})

		Convey("When the prompter fails", func() {
			r := resolve.NewResolver(resolve.WithPrompter(prompt.NewScripted()))
			_, err := r.Resolve(ctx, resolve.Info{Name: "???"}, ros)
			So(err, ShouldWrap, prompt.ErrExhausted)
		})

		Convey("When the context is cancelled mid-prompt", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			r := resolve.NewResolver(resolve.WithPrompter(prompt.NewScripted("Bob Smith")))
			_, err := r.Resolve(cancelled, resolve.Info{Name: "???"}, ros)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestResolution(t *testing.T) {
	Convey("Resolution is a proper tagged result", t, func() {
		m := resolve.Matched("jdoe")
		login, ok := m.Login()
		So(ok, ShouldBeTrue)
		So(login, ShouldEqual, "jdoe")
		So(m.IsSkipped(), ShouldBeFalse)

		s := resolve.Skipped()
		_, ok = s.Login()
		So(ok, ShouldBeFalse)
		So(s.IsSkipped(), ShouldBeTrue)
	})
}
