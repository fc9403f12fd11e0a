package transport

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects pipeline counters. Pass a registerer to expose them;
// with a nil registerer the counters still work but stay unregistered,
// which keeps tests and embedded use cheap.
type Metrics struct {
	RefreshAttempts *prometheus.CounterVec
	Retries         prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casedesk",
			Subsystem: "transport",
			Name:      "refresh_attempts_total",
			Help:      "Credential refresh attempts by result.",
		}, []string{"result"}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casedesk",
			Subsystem: "transport",
			Name:      "request_retries_total",
			Help:      "Requests resubmitted after a credential refresh.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RefreshAttempts, m.Retries)
	}
	return m
}
