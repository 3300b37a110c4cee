package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics_RegistersOnProvidedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordStoreRequest("rest", "list", "success", 10*time.Millisecond)
	m.RecordHTTPRequest("/", "200", time.Millisecond)
	m.UpdateSessionCounts(4, 2)
	m.StaleLoadsDiscarded.Inc()

	if got := testutil.ToFloat64(m.StoreRequestsTotal.WithLabelValues("rest", "list", "success")); got != 1 {
		t.Errorf("store requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SessionsLoaded); got != 4 {
		t.Errorf("sessions loaded = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.SessionsVisible); got != 2 {
		t.Errorf("sessions visible = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.StaleLoadsDiscarded); got != 1 {
		t.Errorf("stale loads = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered metric families")
	}
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	// two instances must not collide, each server gets its own registry
	_ = NewMetrics(prometheus.NewRegistry())
	_ = NewMetrics(prometheus.NewRegistry())
}
