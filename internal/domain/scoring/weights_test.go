package scoring

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWeights(t *testing.T) {
	Convey("Given the default weight table", t, func() {
		w := DefaultWeights()

		Convey("Listed tags use their leverage", func() {
			So(w.Weight("dynamic-programming"), ShouldEqual, 1.35)
			So(w.Weight("graph"), ShouldEqual, 1.3)
			So(w.Weight("math"), ShouldEqual, 0.7)
			So(w.Len(), ShouldEqual, 25)
		})

		Convey("Unlisted tags use the default", func() {
			So(w.Weight("geometry"), ShouldEqual, DefaultTagWeight)
			So(w.Default(), ShouldEqual, 0.6)
		})

		Convey("Copies do not leak mutations", func() {
			table := w.Table()
			table["graph"] = 9
			So(w.Weight("graph"), ShouldEqual, 1.3)

			def := DefaultTable()
			def["arrays"] = 9
			So(DefaultWeights().Weight("arrays"), ShouldEqual, 1.0)
		})
	})

	Convey("Given layered weights", t, func() {
		w := NewWeights(0.5, DefaultTable(), map[string]float64{
			"graph":    2.0,
			"geometry": 0.8,
			"arrays":   0,
		})

		Convey("Later layers override and extend", func() {
			So(w.Weight("graph"), ShouldEqual, 2.0)
			So(w.Weight("geometry"), ShouldEqual, 0.8)
		})

		Convey("Non-positive overrides are ignored", func() {
			So(w.Weight("arrays"), ShouldEqual, 1.0)
		})

		Convey("The default is replaced", func() {
			So(w.Weight("unknown"), ShouldEqual, 0.5)
		})
	})

	Convey("Given degenerate inputs", t, func() {
		So(NewWeights(0).Default(), ShouldEqual, DefaultTagWeight)
		So(Weights{}.Weight("arrays"), ShouldEqual, DefaultTagWeight)
	})
}
