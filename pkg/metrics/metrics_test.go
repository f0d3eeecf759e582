package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveSuccess("url", 120*time.Millisecond, 2048, 9)
	c.ObserveSuccess("url", 80*time.Millisecond, 4096, 4)
	c.ObserveFailure("file")
	c.ObserveFailure("")

	if got := testutil.ToFloat64(c.slices.WithLabelValues("url", ResultOK)); got != 2 {
		t.Errorf("url ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.slices.WithLabelValues("file", ResultError)); got != 1 {
		t.Errorf("file error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.slices.WithLabelValues("unknown", ResultError)); got != 1 {
		t.Errorf("unknown error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.segments); got != 13 {
		t.Errorf("segments = %v, want 13", got)
	}
	if n := testutil.CollectAndCount(c.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveSuccess("stream", time.Second, 1, 4)
	c.ObserveFailure("stream")
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected second registration on the same registry to panic")
		}
	}()
	New(reg)
}
