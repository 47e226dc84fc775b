package scheduler

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/devakmmm/LeetInsight/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.InitWriter(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestScheduler(t *testing.T) {
	Convey("Given a scheduler in UTC", t, func() {
		s := New(WithLocation(time.UTC))

		Convey("When a daily job is added", func() {
			So(s.Add("snapshots", "0 2 * * *", func(context.Context) error { return nil }), ShouldBeNil)

			Convey("Then the next run is at 02:00", func() {
				s.Start()
				defer func() { _ = s.Stop(context.Background()) }()

				next, ok := s.Next("snapshots")
				So(ok, ShouldBeTrue)
				So(next.Hour(), ShouldEqual, 2)
				So(next.Minute(), ShouldEqual, 0)
				So(next.After(time.Now()), ShouldBeTrue)
			})
		})

		Convey("When the spec is invalid", func() {
			err := s.Add("snapshots", "every day", func(context.Context) error { return nil })
			So(errors.Is(err, ErrInvalidSpec), ShouldBeTrue)
		})

		Convey("When the spec is empty", func() {
			So(s.Add("snapshots", "", func(context.Context) error { return nil }), ShouldBeNil)
			_, ok := s.Next("snapshots")
			So(ok, ShouldBeFalse)
		})

		Convey("When a job is run directly", func() {
			var calls atomic.Int32
			err := s.RunNow(context.Background(), "snapshots", func(context.Context) error {
				calls.Add(1)
				return nil
			})
			So(err, ShouldBeNil)
			So(calls.Load(), ShouldEqual, int32(1))

			failing := s.RunNow(context.Background(), "snapshots", func(context.Context) error {
				return errors.New("db locked")
			})
			So(failing, ShouldNotBeNil)
			So(failing.Error(), ShouldContainSubstring, "db locked")
		})

		Convey("When stopped", func() {
			s.Start()
			So(s.Stop(context.Background()), ShouldBeNil)
		})
	})
}
