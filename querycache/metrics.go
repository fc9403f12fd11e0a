package querycache

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects cache counters. A nil registerer leaves the counters
// functional but unregistered.
type Metrics struct {
	Hits          prometheus.Counter
	Misses        prometheus.Counter
	Fetches       prometheus.Counter
	Invalidations prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casedesk",
			Subsystem: "querycache",
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		Hits:          counter("hits_total", "Reads served from a fresh cache entry."),
		Misses:        counter("misses_total", "Reads that had to go to the network."),
		Fetches:       counter("fetches_total", "Fetcher invocations after single-flight collapsing."),
		Invalidations: counter("invalidations_total", "Entries marked stale by mutations."),
	}
	if reg != nil {
		reg.MustRegister(m.Hits, m.Misses, m.Fetches, m.Invalidations)
	}
	return m
}
