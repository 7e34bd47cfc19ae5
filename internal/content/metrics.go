package content

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts listing attempts and cache hits.
type Metrics struct {
	Attempts  *prometheus.CounterVec
	CacheHits *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tapedeck_listing_attempts_total",
				Help: "Total number of listing attempts against the content host",
			},
			[]string{"endpoint", "outcome"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tapedeck_listing_cache_hits_total",
				Help: "Total number of listings served from the cache",
			},
			[]string{"endpoint"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Attempts, m.CacheHits)
	}
	return m
}

func (m *Metrics) attempt(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) cacheHit(endpoint string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(endpoint).Inc()
}
