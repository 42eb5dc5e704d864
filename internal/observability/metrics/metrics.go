package metrics

import "github.com/prometheus/client_golang/prometheus"

// HoneypotMetrics exposes counters/histograms for the detection pipeline.
type HoneypotMetrics struct {
	requestsTotal     *prometheus.CounterVec
	scamDetectedTotal prometheus.Counter
	stageLatency      *prometheus.HistogramVec
	stageFallbacks    *prometheus.CounterVec
}

func NewHoneypotMetrics(reg prometheus.Registerer) *HoneypotMetrics {
	m := &HoneypotMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scamshield",
			Subsystem: "honeypot",
			Name:      "requests_total",
			Help:      "Total scam-detection requests by outcome",
		}, []string{"outcome"}),
		scamDetectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scamshield",
			Subsystem: "honeypot",
			Name:      "scam_detected_total",
			Help:      "Total requests classified as scams",
		}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scamshield",
			Subsystem: "honeypot",
			Name:      "stage_latency_seconds",
			Help:      "Latency of each orchestration stage",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scamshield",
			Subsystem: "honeypot",
			Name:      "stage_fallbacks_total",
			Help:      "Stage failures degraded to canned fallbacks",
		}, []string{"stage", "reason"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.scamDetectedTotal, m.stageLatency, m.stageFallbacks)
	return m
}

func (m *HoneypotMetrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

func (m *HoneypotMetrics) ObserveScamDetected() {
	if m == nil {
		return
	}
	m.scamDetectedTotal.Inc()
}

func (m *HoneypotMetrics) ObserveStageLatency(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.stageLatency.WithLabelValues(stage).Observe(seconds)
}

func (m *HoneypotMetrics) ObserveStageFallback(stage, reason string) {
	if m == nil {
		return
	}
	m.stageFallbacks.WithLabelValues(stage, reason).Inc()
}
