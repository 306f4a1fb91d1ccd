package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry and custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("probe"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithPrometheusRegistry(registry),
			)

			Convey("Then options are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "probe")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.Enabled(), ShouldBeFalse)
			})

			Convey("And collectors are registered on that registry", func() {
				manager.tapsSkipped.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_probe_taps_skipped_total")
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "tapcheck")
				So(manager.subsystem, ShouldEqual, "classifier")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.Enabled(), ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		SetEnabled(true)
		defer SetEnabled(true)

		Convey("When recording classified taps", func() {
			validBefore := testutil.ToFloat64(globalManager.tapsClassified.WithLabelValues(verdictValid))
			invalidBefore := testutil.ToFloat64(globalManager.tapsClassified.WithLabelValues(verdictInvalid))

			RecordTapClassified(true)
			RecordTapClassified(false)
			RecordTapClassified(false)

			Convey("Then each verdict is counted separately", func() {
				So(testutil.ToFloat64(globalManager.tapsClassified.WithLabelValues(verdictValid))-validBefore, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.tapsClassified.WithLabelValues(verdictInvalid))-invalidBefore, ShouldEqual, 2)
			})
		})

		Convey("When recording anomalies and skips", func() {
			tag := "BASELINE_FORCE_INCONSISTENT"
			before := testutil.ToFloat64(globalManager.tapAnomalies.WithLabelValues(tag))
			skippedBefore := testutil.ToFloat64(globalManager.tapsSkipped)

			RecordAnomaly(tag)
			RecordTapSkipped()

			Convey("Then they are counted", func() {
				So(testutil.ToFloat64(globalManager.tapAnomalies.WithLabelValues(tag))-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.tapsSkipped)-skippedBefore, ShouldEqual, 1)
			})
		})

		Convey("When recording latencies and HTTP requests", func() {
			So(func() {
				RecordClassifyLatency(3.5)
				RecordHTTPRequest("classify", "POST", 200)
				RecordHTTPRequestDuration("classify", "POST", 200, 1.2)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("classify", "POST", "200")), ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("When metrics are disabled", func() {
			SetEnabled(false)
			before := testutil.ToFloat64(globalManager.tapsSkipped)
			RecordTapSkipped()

			Convey("Then nothing is recorded", func() {
				So(testutil.ToFloat64(globalManager.tapsSkipped), ShouldEqual, before)
			})
		})

		Convey("Then the custom registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
