// Package metrics instruments a run with Prometheus collectors and can dump
// them to a node_exporter style textfile. A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hnbest"

type Metrics struct {
	registry *prometheus.Registry

	CacheLookups    *prometheus.CounterVec
	ItemFailures    prometheus.Counter
	DecodeWarnings  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RunDuration     prometheus.Histogram
	RankedStories   prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Story cache lookups by result",
			},
			[]string{"result"},
		),
		ItemFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "item_failures_total",
				Help:      "Items dropped from a run because they could not be fetched",
			},
		),
		DecodeWarnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decode_warnings_total",
				Help:      "Tokens or fields that could not be decoded",
			},
			[]string{"payload"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op", "result"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall clock time of a full fetch and rank run",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		RankedStories: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ranked_stories",
				Help:      "Stories returned by the last run",
			},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) ItemFailed() {
	if m == nil {
		return
	}
	m.ItemFailures.Inc()
}

// DecodeWarned counts n warnings for the given payload kind ("ids" or "item").
func (m *Metrics) DecodeWarned(payload string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.DecodeWarnings.WithLabelValues(payload).Add(float64(n))
}

func (m *Metrics) ObserveRequest(op, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(op, result).Observe(d.Seconds())
}

func (m *Metrics) ObserveRun(d time.Duration, ranked int) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
	m.RankedStories.Set(float64(ranked))
}

// WriteFile writes all collected metrics in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
