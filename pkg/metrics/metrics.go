package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spotme"

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	storeUpdates   *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
	publicLookups  *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		storeUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_updates_total",
			Help:      "Section updates applied to, or refused by, editing documents.",
		}, []string{"section", "result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_transitions_total",
			Help:      "Save and publish attempts by outcome.",
		}, []string{"op", "result"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "asset_upload_duration_seconds",
			Help:      "Latency of asset uploads issued by editors.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "result"}),
		publicLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "public_lookups_total",
			Help:      "Public portfolio lookups by cache outcome.",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "editing_sessions",
			Help:      "Editing sessions currently resident.",
		}),
	}

	var err error
	if m.storeUpdates, err = register(reg, m.storeUpdates); err != nil {
		return nil, err
	}
	if m.transitions, err = register(reg, m.transitions); err != nil {
		return nil, err
	}
	if m.uploadDuration, err = register(reg, m.uploadDuration); err != nil {
		return nil, err
	}
	if m.publicLookups, err = register(reg, m.publicLookups); err != nil {
		return nil, err
	}
	if m.activeSessions, err = register(reg, m.activeSessions); err != nil {
		return nil, err
	}
	return m, nil
}

// register tolerates a second registration of the same collector, which
// happens when server and tests share the default registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

func (m *Metrics) StoreUpdate(section, result string) {
	if m == nil {
		return
	}
	m.storeUpdates.WithLabelValues(section, result).Inc()
}

func (m *Metrics) Transition(op string, err error) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(op, resultLabel(err)).Inc()
}

func (m *Metrics) Upload(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.uploadDuration.WithLabelValues(kind, resultLabel(err)).Observe(d.Seconds())
}

func (m *Metrics) PublicLookup(outcome string) {
	if m == nil {
		return
	}
	m.publicLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SessionsResident(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
