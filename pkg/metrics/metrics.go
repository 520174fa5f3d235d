package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcomes
const (
	OutcomeInvalid     = "invalid"
	OutcomeDuplicate   = "duplicate"
	OutcomeSaved       = "saved"
	OutcomeRejected    = "rejected"
	OutcomeUnreachable = "unreachable"
)

// LeadMetrics exposes counters/histograms for the landing flows.
type LeadMetrics struct {
	submissions     *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
	pixelEvents     *prometheus.CounterVec
	streams         prometheus.Gauge
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbs",
			Subsystem: "landing",
			Name:      "lead_submissions_total",
			Help:      "Lead form submissions by outcome",
		}, []string{"outcome"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cbs",
			Subsystem: "landing",
			Name:      "lead_endpoint_latency_seconds",
			Help:      "Latency of the remote leads endpoint",
			Buckets:   prometheus.DefBuckets,
		}),
		pixelEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbs",
			Subsystem: "landing",
			Name:      "pixel_events_total",
			Help:      "Lead conversion events by status",
		}, []string{"status"}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cbs",
			Subsystem: "landing",
			Name:      "countdown_streams",
			Help:      "Open countdown event streams",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.upstreamLatency, m.pixelEvents, m.streams)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveUpstreamLatency(seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.Observe(seconds)
}

func (m *LeadMetrics) ObservePixel(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.pixelEvents.WithLabelValues(status).Inc()
}

// StreamOpened tracks an SSE client and returns the matching close func.
func (m *LeadMetrics) StreamOpened() func() {
	if m == nil {
		return func() {}
	}
	m.streams.Inc()
	return m.streams.Dec
}
