package scoring

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
)

func TestEngineReport(t *testing.T) {
	Convey("Given the end-to-end fixture", t, func() {
		e := NewEngine()
		solved := model.ProblemCounts{All: 50, Easy: 20, Medium: 25, Hard: 5}
		tags := []model.TagStat{
			{TagSlug: "dynamic-programming", TagName: "Dynamic Programming", Solved: 15},
			{TagSlug: "arrays", TagName: "Array", Solved: 30},
		}
		first := time.Date(2025, 2, 1, 2, 0, 0, 0, time.UTC)
		last := first.Add(10 * day)
		snaps := []model.Snapshot{
			{ID: 1, CapturedAt: first, Solved: model.ProblemCounts{All: 30}},
			{ID: 2, CapturedAt: last, Solved: solved},
		}

		Convey("When computed a week after the last snapshot", func() {
			r := e.Report(solved, tags, snaps, last.Add(7*day))

			Convey("Then every component matches the pinned values", func() {
				So(*r.Velocity.PerDay, ShouldEqual, 2.0)
				So(*r.Velocity.Delta, ShouldEqual, 20)
				So(*r.Velocity.ElapsedDays, ShouldEqual, 10.0)
				So(r.Breadth, ShouldResemble, Breadth{DistinctTags: 2, Score: 0.167})
				So(r.Ramp, ShouldResemble, Ramp{HardRatio: 0.1, Score: 0.556})
				So(r.Coverage.Score, ShouldEqual, 0.8)
				So(r.LastSnapshotAt.Equal(last), ShouldBeTrue)
				So(r.Recency, ShouldAlmostEqual, 0.6065306597, 1e-9)
			})

			Convey("Then readiness is pinned", func() {
				So(r.Readiness.Base, ShouldEqual, 66.5)
				So(r.Readiness.Final, ShouldEqual, 40.3)
				So(r.Readiness.Components, ShouldResemble, Components{
					Velocity:         100,
					Breadth:          16.7,
					LeverageCoverage: 80,
					DifficultyRamp:   55.6,
					RecencyFactor:    0.607,
				})
			})

			Convey("Then only dynamic programming is worth recommending", func() {
				So(r.Recommendations, ShouldHaveLength, 1)
				rec := r.Recommendations[0]
				So(rec.TagSlug, ShouldEqual, "dynamic-programming")
				So(rec.Weight, ShouldEqual, 1.35)
				So(rec.Coverage, ShouldEqual, 0.713)
				So(rec.Opportunity, ShouldEqual, 0.387)
				So(rec.Why[0], ShouldEqual, "High interview-leverage topic")
				So(rec.Why[1], ShouldEqual, "Moderate gap remaining")
			})
		})

		Convey("When computed at the moment of the last snapshot", func() {
			r := e.Readiness(solved, tags, snaps, last)
			So(r.Final, ShouldEqual, r.Base)
			So(r.Components.RecencyFactor, ShouldEqual, 1)
		})

		Convey("When the user has never taken a snapshot", func() {
			r := e.Report(solved, tags, nil, last)

			So(r.Velocity.Known(), ShouldBeFalse)
			So(r.LastSnapshotAt, ShouldBeNil)
			So(r.Recency, ShouldEqual, 0.5)
			So(r.Readiness.Base, ShouldEqual, 36.5)
			So(r.Readiness.Final, ShouldEqual, 18.3)
		})

		Convey("When the profile is empty", func() {
			r := e.Report(model.ProblemCounts{}, nil, nil, last)
			So(r.Readiness.Base, ShouldEqual, 0)
			So(r.Readiness.Final, ShouldEqual, 0)
			So(r.Recommendations, ShouldBeEmpty)
		})
	})

	Convey("Given engine options", t, func() {
		e := NewEngine(
			WithWeights(NewWeights(0.6, map[string]float64{"arrays": 5})),
			WithTopN(1),
			WithTopN(-1),
		)
		So(e.TopN(), ShouldEqual, 1)
		So(e.Weights().Weight("arrays"), ShouldEqual, 5)

		recs := e.Recommend([]model.TagStat{{TagSlug: "arrays"}, {TagSlug: "graph"}}, 0)
		So(recs, ShouldHaveLength, 1)
		So(recs[0].TagSlug, ShouldEqual, "arrays")
		So(e.Recommend([]model.TagStat{{TagSlug: "arrays"}, {TagSlug: "graph"}}, 2), ShouldHaveLength, 2)

		v := e.Velocity(nil)
		So(v.Known(), ShouldBeFalse)
	})
}
