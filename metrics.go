package keystore

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	keyOps      *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		keyOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keystore",
			Name:      "key_operations_total",
			Help:      "Key lifecycle operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "keystore",
			Subsystem: "storage",
			Name:      "cache_hits_total",
			Help:      "Reads served by the volatile tier.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "keystore",
			Subsystem: "storage",
			Name:      "cache_misses_total",
			Help:      "Reads that fell through to the durable tier.",
		}),
	}
	reg.MustRegister(m.keyOps, m.cacheHits, m.cacheMisses)
	return m
}

func (m *metrics) keyOp(op, outcome string) {
	if m == nil {
		return
	}
	m.keyOps.WithLabelValues(op, outcome).Inc()
}

// NewVerifyCacheCounters builds and registers hit/miss counters suitable for
// VerificationCache.Instrument.
func NewVerifyCacheCounters(reg prometheus.Registerer) (hits, misses prometheus.Counter) {
	hits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keystore",
		Subsystem: "verify",
		Name:      "cache_hits_total",
		Help:      "Verifications answered from the verification cache.",
	})
	misses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keystore",
		Subsystem: "verify",
		Name:      "cache_misses_total",
		Help:      "Verifications that ran the cryptographic check.",
	})
	if reg != nil {
		reg.MustRegister(hits, misses)
	}
	return hits, misses
}
