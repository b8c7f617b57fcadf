package metrics

import (
	"errors"
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
				WithSubsystem("tiers"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered", func() {
				So(m, ShouldNotBeNil)
				So(m.RecordClassification(SourceFamily, 3), ShouldBeNil)
				n, err := testutil.GatherAndCount(registry, "test_tiers_classifications_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})
	})
}

func TestRecordClassification(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording known sources", func() {
			So(m.RecordClassification(SourceFamily, 2), ShouldBeNil)
			So(m.RecordClassification(SourceFamily, 4), ShouldBeNil)
			So(m.RecordClassification(SourceFallback, 0), ShouldBeNil)

			Convey("Then the counters reflect them", func() {
				So(testutil.ToFloat64(m.classifications.WithLabelValues(SourceFamily)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.classifications.WithLabelValues(SourceFallback)), ShouldEqual, 1)
			})
		})

		Convey("When recording an unknown source", func() {
			err := m.RecordClassification("guess", 1)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrUnknownSource), ShouldBeTrue)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("Then recording never panics", func() {
			So(func() {
				RecordClassification(SourceFamily, 2)
				RecordClassification("bogus", 0)
				RecordFallbackOutOfRange()
				UpdateCatalog(100, 10)
				RecordInspectionProcessed()
				RecordInspectionDuplicate()
				RecordUnknownModifiers(2)
				UpdateReportsStored(5)
				UpdateQueueSize(3)
				UpdateQueueCapacity(10)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError("queue_full")
				UpdateWorkerCount(4)
				RecordWorkerProcessingLatency(1.5)
				RecordWorkerError()
				RecordHTTPRequest("/classify", "POST", "200")
				RecordHTTPRequestDuration("/classify", "POST", "200", 2)
				RecordHTTPError("/classify", "client_error")
			}, ShouldNotPanic)
		})

		Convey("Then catalog gauges are exposed on the registry", func() {
			UpdateCatalog(42, 7)
			So(testutil.ToFloat64(globalManager.catalogRecords), ShouldEqual, 42)
			So(testutil.ToFloat64(globalManager.catalogFamilies), ShouldEqual, 7)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestRegisterRuntimeCollectors(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When registering runtime collectors twice", func() {
			So(func() {
				RegisterRuntimeCollectors()
				RegisterRuntimeCollectors()
			}, ShouldNotPanic)

			Convey("Then Go runtime metrics are gathered", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "go_goroutines" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
