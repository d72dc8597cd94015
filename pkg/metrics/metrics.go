package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Cache related metrics
	CacheLookups       *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec

	// Outbound mail metrics
	MailDeliveries *prometheus.CounterVec

	// Account lifecycle metrics
	AccountEvents *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by key and outcome",
		}, []string{"key", "result"}),
		CacheInvalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache keys invalidated after writes",
		}, []string{"key"}),
		MailDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "deliveries_total",
			Help:      "Outbound mail attempts by kind and status",
		}, []string{"kind", "status"}),
		AccountEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "events_total",
			Help:      "Account lifecycle transitions",
		}, []string{"event"}),
	}
}

func (m *Metrics) CacheHit(key string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(key, "hit").Inc()
	}
}

func (m *Metrics) CacheMiss(key string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(key, "miss").Inc()
	}
}

func (m *Metrics) CacheInvalidated(key string) {
	if m != nil {
		m.CacheInvalidations.WithLabelValues(key).Inc()
	}
}

func (m *Metrics) MailSent(kind string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.MailDeliveries.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) AccountEvent(event string) {
	if m != nil {
		m.AccountEvents.WithLabelValues(event).Inc()
	}
}
