package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/devakmmm/LeetInsight/internal/adapters/repository"
	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
)

func row(name string, total int) types.LeaderboardUser {
	return types.LeaderboardUser{Username: name, TotalSolved: total}
}

func TestRankIndex(t *testing.T) {
	Convey("Given a rank index", t, func() {
		idx := repository.NewRankIndex()

		Convey("When empty", func() {
			So(idx.Count(), ShouldEqual, 0)
			top, err := idx.TopN(10)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
			So(idx.Rank("ghost").Found, ShouldBeFalse)
			So(idx.TierDistribution(), ShouldBeEmpty)
		})

		Convey("When asking for a non-positive limit", func() {
			_, err := idx.TopN(0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("When users are inserted out of order", func() {
			idx.Upsert(row("dave", 50))
			idx.Upsert(row("alice", 300))
			idx.Upsert(row("carol", 120))
			idx.Upsert(row("bob", 300))
			idx.Upsert(row("erin", 1500))

			Convey("Then TopN orders by total then name with positional ranks", func() {
				top, err := idx.TopN(10)
				So(err, ShouldBeNil)
				names := make([]string, 0, len(top))
				for i, e := range top {
					So(e.Rank, ShouldEqual, i+1)
					names = append(names, e.Username)
				}
				So(names, ShouldResemble, []string{"erin", "alice", "bob", "carol", "dave"})
			})

			Convey("Then TopN honours the limit", func() {
				top, err := idx.TopN(2)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
				So(top[1].Username, ShouldEqual, "alice")
			})

			Convey("Then equal totals share a competition rank", func() {
				a := idx.Rank("alice")
				b := idx.Rank("bob")
				So(a.Found, ShouldBeTrue)
				So(a.Rank, ShouldEqual, 2)
				So(b.Rank, ShouldEqual, 2)
				So(idx.Rank("carol").Rank, ShouldEqual, 4)
			})

			Convey("Then rank details are filled", func() {
				d := idx.Rank("dave")
				So(d.TotalUsers, ShouldEqual, 5)
				So(d.Tier, ShouldEqual, "Bronze")
				So(d.Percentile, ShouldEqual, 0)
				So(d.IsTop10, ShouldBeFalse)

				e := idx.Rank("erin")
				So(e.Rank, ShouldEqual, 1)
				So(e.Percentile, ShouldEqual, 80)
				So(e.IsTop250, ShouldBeFalse)
			})

			Convey("Then the tier distribution is highest first", func() {
				So(idx.TierDistribution(), ShouldResemble, []types.TierCount{
					{Tier: "Iridescent", Count: 1},
					{Tier: "Gold", Count: 2},
					{Tier: "Silver", Count: 1},
					{Tier: "Bronze", Count: 1},
				})
			})

			Convey("When a user moves", func() {
				idx.Upsert(row("dave", 2000))

				Convey("Then the order and tiers follow", func() {
					So(idx.Count(), ShouldEqual, 5)
					So(idx.Rank("dave").Rank, ShouldEqual, 1)
					So(idx.Rank("erin").Rank, ShouldEqual, 2)
					dist := idx.TierDistribution()
					So(dist[0], ShouldResemble, types.TierCount{Tier: "Iridescent", Count: 2})
					So(dist[len(dist)-1].Tier, ShouldEqual, "Silver")
				})
			})
		})

		Convey("When writes for one user arrive out of order", func() {
			t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			newer := row("frank", 300)
			newer.LastUpdatedAt = t0.Add(time.Second)
			older := row("frank", 100)
			older.LastUpdatedAt = t0

			So(idx.Upsert(newer), ShouldBeTrue)
			So(idx.Upsert(older), ShouldBeFalse)

			Convey("Then the newer totals stay indexed", func() {
				top, err := idx.TopN(1)
				So(err, ShouldBeNil)
				So(top[0].TotalSolved, ShouldEqual, 300)
				So(idx.Count(), ShouldEqual, 1)
			})

			Convey("Then a write with the same timestamp still applies", func() {
				same := row("frank", 350)
				same.LastUpdatedAt = newer.LastUpdatedAt
				So(idx.Upsert(same), ShouldBeTrue)
				So(idx.Rank("frank").TotalSolved, ShouldEqual, 350)
			})
		})

		Convey("When the population reaches the badge threshold", func() {
			for i := range types.MinUsersForTop250 {
				idx.Upsert(row(fmt.Sprintf("user%03d", i), i))
			}

			Convey("Then top badges switch on", func() {
				best := idx.Rank("user299")
				So(best.Rank, ShouldEqual, 1)
				So(best.IsTop10, ShouldBeTrue)
				So(best.IsTop250, ShouldBeTrue)
				So(best.Percentile, ShouldEqual, 100)

				mid := idx.Rank("user040")
				So(mid.Rank, ShouldEqual, 260)
				So(mid.IsTop250, ShouldBeFalse)

				top, err := idx.TopN(500)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 300)
			})
		})
	})
}

func TestRankIndexLoad(t *testing.T) {
	Convey("Given a store with leaderboard rows", t, func() {
		ctx := context.Background()
		c := &clock{t: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
		s := openStore(c)
		defer func() { _ = s.Close() }()

		for name, total := range map[string]int{"alice": 10, "bob": 400, "carol": 1000} {
			_, err := s.UpsertLeaderboardUser(ctx, name, model.ProblemCounts{All: total})
			So(err, ShouldBeNil)
		}

		Convey("When the index is loaded", func() {
			idx := repository.NewRankIndex()
			idx.Upsert(row("stale", 5))
			So(idx.Load(ctx, s), ShouldBeNil)

			Convey("Then it mirrors the table", func() {
				So(idx.Count(), ShouldEqual, 3)
				So(idx.Rank("stale").Found, ShouldBeFalse)
				So(idx.Rank("carol").Rank, ShouldEqual, 1)
				So(idx.Rank("bob").Tier, ShouldEqual, "Gold")

				top, err := idx.TopN(1)
				So(err, ShouldBeNil)
				So(top[0].FirstSeenAt.Equal(c.t), ShouldBeTrue)
			})
		})
	})
}
