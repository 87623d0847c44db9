package miner

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry  *prometheus.Registry
	finalized *prometheus.CounterVec
	timeouts  prometheus.Counter
	failures  prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		finalized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainlab_blocks_finalized_total",
				Help: "Blocks finalized and appended, by consensus",
			},
			[]string{"consensus"},
		),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chainlab_consensus_timeouts_total",
			Help: "Appends abandoned because finalization hit its deadline",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chainlab_append_failures_total",
			Help: "Appends that returned an error",
		}),
	}

	m.registry.MustRegister(m.finalized, m.timeouts, m.failures)
	return m
}
