package tap_test

import (
	"testing"

	"github.com/okian/tapcheck/internal/domain/tap"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCurve(t *testing.T) {
	Convey("Given a new curve", t, func() {
		c := tap.NewCurve([tap.PointCount]tap.Point{{Force: 1}, {Force: 2}, {Force: 3}, {Force: 4}, {Force: 5}}, 10)

		Convey("Then it starts valid with no anomalies", func() {
			So(c.Valid, ShouldBeTrue)
			So(c.HasAnomalies(), ShouldBeFalse)
			So(c.TriggerForce, ShouldEqual, 10)
			So(c.Points[tap.FinalBaseline].Force, ShouldEqual, 5)
		})

		Convey("When anomalies are added", func() {
			c.AddAnomaly(tap.BaselineForceInconsistent)
			c.AddAnomaly(tap.BaselineForceInconsistent)

			Convey("Then duplicates are kept in order", func() {
				So(c.HasAnomalies(), ShouldBeTrue)
				So(c.AnomalyStrings(), ShouldResemble, []string{
					"BASELINE_FORCE_INCONSISTENT",
					"BASELINE_FORCE_INCONSISTENT",
				})
			})

			Convey("And adding anomalies does not touch validity", func() {
				So(c.Valid, ShouldBeTrue)
			})
		})

		Convey("When invalidated", func() {
			c.Invalidate()
			So(c.Valid, ShouldBeFalse)
		})
	})
}
