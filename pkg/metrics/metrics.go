// Package metrics exposes Prometheus instrumentation for slice calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "image_slicer"

// Result label values
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Collector records slice outcomes. A nil *Collector records nothing.
type Collector struct {
	slices   *prometheus.CounterVec
	segments prometheus.Counter
	duration *prometheus.HistogramVec
	bytes    prometheus.Histogram
}

// New registers the slicer metrics with reg. A nil reg registers with the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		slices: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slices_total",
			Help:      "Total slice calls by input source and result.",
		}, []string{"source", "result"}),
		segments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_total",
			Help:      "Total segments produced.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slice_duration_seconds",
			Help:      "Wall time of successful slice calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"source"}),
		bytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_bytes",
			Help:      "Size of acquired source images in bytes.",
			Buckets:   prometheus.ExponentialBuckets(4096, 4, 9),
		}),
	}
}

// ObserveSuccess records a completed slice call
func (c *Collector) ObserveSuccess(source string, elapsed time.Duration, sourceBytes, segments int) {
	if c == nil {
		return
	}
	c.slices.WithLabelValues(source, ResultOK).Inc()
	c.segments.Add(float64(segments))
	c.duration.WithLabelValues(source).Observe(elapsed.Seconds())
	c.bytes.Observe(float64(sourceBytes))
}

// ObserveFailure records a failed slice call. source may be empty when the
// input could not be classified.
func (c *Collector) ObserveFailure(source string) {
	if c == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	c.slices.WithLabelValues(source, ResultError).Inc()
}
