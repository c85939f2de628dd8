// Package metrics exposes the trust engine's Prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RecalculationsTotal    *prometheus.CounterVec
	RecalculationDuration  *prometheus.HistogramVec
	CacheHitsTotal         prometheus.Counter
	CacheMissesTotal       prometheus.Counter
	RecalculationQueueSize prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		RecalculationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vouch_trust_recalculations_total",
			Help: "Total number of trust rating recalculations by subject kind and outcome",
		}, []string{"subject_kind", "outcome"}),
		RecalculationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vouch_trust_recalculation_duration_seconds",
			Help:    "Duration of full trust rating recalculations",
			Buckets: prometheus.DefBuckets,
		}, []string{"subject_kind"}),
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouch_trust_rating_cache_hits_total",
			Help: "Total number of rating reads served from the cache",
		}),
		CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouch_trust_rating_cache_misses_total",
			Help: "Total number of rating reads that fell through to the store",
		}),
		RecalculationQueueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vouch_trust_recalculation_queue_size",
			Help: "Current number of queued asynchronous recalculation jobs",
		}),
	}
}

func (m *Metrics) ObserveRecalculation(subjectKind string, outcome string, elapsed time.Duration) {
	m.RecalculationsTotal.WithLabelValues(subjectKind, outcome).Inc()
	m.RecalculationDuration.WithLabelValues(subjectKind).Observe(elapsed.Seconds())
}

func (m *Metrics) IncrementCacheHits() { m.CacheHitsTotal.Inc() }

func (m *Metrics) IncrementCacheMisses() { m.CacheMissesTotal.Inc() }

func (m *Metrics) SetQueueSize(size int) { m.RecalculationQueueSize.Set(float64(size)) }
