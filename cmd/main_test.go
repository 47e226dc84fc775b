package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	app "github.com/devakmmm/LeetInsight/internal/app"
	"github.com/devakmmm/LeetInsight/internal/config"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// fakeLeetCode answers the three GraphQL queries for any username.
func fakeLeetCode() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(req.Query, "tagProblemCounts"):
			_, _ = w.Write([]byte(`{"data":{"matchedUser":{"tagProblemCounts":{"advanced":[],"intermediate":[],
				"fundamental":[{"tagName":"Array","tagSlug":"arrays","problemsSolved":12}]}}}}`))
		case strings.Contains(req.Query, "recentSubmissionList"):
			_, _ = w.Write([]byte(`{"data":{"recentSubmissionList":[]}}`))
		default:
			_, _ = w.Write([]byte(`{"data":{"matchedUser":{"username":"alice","submitStats":{"acSubmissionNum":[
				{"difficulty":"All","count":40},{"difficulty":"Easy","count":30},
				{"difficulty":"Medium","count":8},{"difficulty":"Hard","count":2}]}}}}`))
		}
	}))
}

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigLoading(t *testing.T) {
	convey.Convey("Given LEETINSIGHT_ environment overrides", t, func() {
		t.Setenv("LEETINSIGHT_ADDR", ":8080")
		t.Setenv("LEETINSIGHT_QUEUE_SIZE", "1000")
		t.Setenv("LEETINSIGHT_WORKER_COUNT", "2")

		convey.Convey("Then configuration reflects them", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
		})

		convey.Convey("Then service options build a service", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			_ = logger.InitWriter(&bytes.Buffer{}, logger.FormatText)
			convey.So(app.New(serviceOptions(cfg)...), convey.ShouldNotBeNil)
		})
	})
}

func TestTierCommand(t *testing.T) {
	convey.Convey("Given the tier command", t, func() {
		convey.Convey("When the total is valid", func() {
			out, err := run("tier", "650")
			convey.So(err, convey.ShouldBeNil)

			var info types.TierInfo
			convey.So(json.Unmarshal([]byte(out), &info), convey.ShouldBeNil)
			convey.So(info.Tier, convey.ShouldEqual, "Platinum")
			convey.So(info.NextTier, convey.ShouldEqual, "Diamond")
			convey.So(info.ToNextTier, convey.ShouldEqual, 350)
		})

		convey.Convey("When the total is not a number", func() {
			_, err := run("tier", "many")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the total is negative", func() {
			_, err := run("tier", "--", "-5")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When no total is given", func() {
			_, err := run("tier")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestServiceCommands(t *testing.T) {
	convey.Convey("Given a fake upstream and an in-memory store", t, func() {
		srv := fakeLeetCode()
		defer srv.Close()
		t.Setenv("LEETINSIGHT_UPSTREAM_URL", srv.URL)
		t.Setenv("LEETINSIGHT_DB_PATH", ":memory:")

		convey.Convey("When taking a snapshot", func() {
			out, err := run("snapshot", "Alice")
			convey.So(err, convey.ShouldBeNil)

			var res types.SnapshotResult
			convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
			convey.So(res.Username, convey.ShouldEqual, "alice")
			convey.So(res.Solved.All, convey.ShouldEqual, 40)
			convey.So(res.TagsCount, convey.ShouldEqual, 1)
		})

		convey.Convey("When computing insights", func() {
			out, err := run("insights", "alice", "--days", "14")
			convey.So(err, convey.ShouldBeNil)

			var res types.Insights
			convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
			convey.So(res.History.Days, convey.ShouldEqual, 14)
			convey.So(res.History.SnapshotCount, convey.ShouldEqual, 0)
			convey.So(res.Recommendations.Principle, convey.ShouldEqual, app.Principle)
		})

		convey.Convey("When the configuration is invalid", func() {
			t.Setenv("LEETINSIGHT_DEFAULT_TAG_WEIGHT", "-1")
			_, err := run("snapshot", "alice")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "load config")
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		_ = logger.InitWriter(&bytes.Buffer{}, logger.FormatText)

		convey.Convey("Then system metrics update without panicking", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the system updater returns when its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then service metrics update for a stopped service", func() {
			svc := app.New()
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
