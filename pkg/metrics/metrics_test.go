package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then options are applied", func() {
				So(m.namespace, ShouldEqual, "test")
				So(m.subsystem, ShouldEqual, "unit")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 2})
			})

			Convey("And collectors are registered under the namespace", func() {
				m.poolSize.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_pool_players"], ShouldBeTrue)
			})
		})

		Convey("When empty options are given", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))
			So(m.namespace, ShouldEqual, "bricklayers")
			So(m.subsystem, ShouldEqual, "draft")
			So(m.histogramBuckets, ShouldNotBeEmpty)
		})
	})
}

func TestRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording pick operations", func() {
			before := testutil.ToFloat64(globalManager.pickOperations.WithLabelValues("add"))
			RecordPickOperation("add")
			RecordPickOperation("add")
			So(testutil.ToFloat64(globalManager.pickOperations.WithLabelValues("add")), ShouldEqual, before+2)
		})

		Convey("When recording roster resolution", func() {
			matched := testutil.ToFloat64(globalManager.rosterMatched)
			unmatched := testutil.ToFloat64(globalManager.rosterUnmatched)
			RecordRosterResolution(3, 1)
			So(testutil.ToFloat64(globalManager.rosterMatched), ShouldEqual, matched+3)
			So(testutil.ToFloat64(globalManager.rosterUnmatched), ShouldEqual, unmatched+1)
		})

		Convey("When updating gauges", func() {
			UpdatePoolSize(42)
			UpdateLeaguesTracked(2)
			So(testutil.ToFloat64(globalManager.poolSize), ShouldEqual, 42)
			So(testutil.ToFloat64(globalManager.leaguesTracked), ShouldEqual, 2)
		})

		Convey("When recording the rest", func() {
			So(func() {
				RecordRankRequest("live")
				RecordRankLatency(1.5)
				RecordPoolReload("file", "ok")
				RecordStoreLatency("get", 0.2)
				RecordHTTPRequest("best", "GET", "200")
				RecordHTTPRequestDuration("best", "GET", "200", 3)
				RecordErrorByComponent("repository", "count")
				RecordErrorByEndpoint("best", "GET", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
			}, ShouldNotPanic)
		})

		Convey("The registry gathers without error", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
