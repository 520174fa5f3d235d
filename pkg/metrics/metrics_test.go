package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counterWithLabel(f *dto.MetricFamily, value string) float64 {
	for _, m := range f.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetValue() == value {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestLeadMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveSubmission(OutcomeSaved)
	m.ObserveSubmission(OutcomeSaved)
	m.ObserveSubmission(OutcomeUnreachable)
	m.ObservePixel(true)
	m.ObservePixel(false)
	m.ObserveUpstreamLatency(0.2)

	families := gather(t, reg)

	submissions := families["cbs_landing_lead_submissions_total"]
	if got := counterWithLabel(submissions, OutcomeSaved); got != 2 {
		t.Fatalf("expected 2 saved submissions, got %v", got)
	}
	if got := counterWithLabel(submissions, OutcomeUnreachable); got != 1 {
		t.Fatalf("expected 1 unreachable submission, got %v", got)
	}
	if got := counterWithLabel(families["cbs_landing_pixel_events_total"], "error"); got != 1 {
		t.Fatalf("expected 1 pixel error, got %v", got)
	}
	latency := families["cbs_landing_lead_endpoint_latency_seconds"]
	if latency == nil || latency.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one latency sample")
	}
}

func TestStreamGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	closeA := m.StreamOpened()
	closeB := m.StreamOpened()
	if got := gather(t, reg)["cbs_landing_countdown_streams"].GetMetric()[0].GetGauge().GetValue(); got != 2 {
		t.Fatalf("expected 2 open streams, got %v", got)
	}
	closeA()
	closeB()
	if got := gather(t, reg)["cbs_landing_countdown_streams"].GetMetric()[0].GetGauge().GetValue(); got != 0 {
		t.Fatalf("expected 0 open streams, got %v", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission(OutcomeSaved)
	m.ObserveUpstreamLatency(1)
	m.ObservePixel(true)
	m.StreamOpened()()
}
