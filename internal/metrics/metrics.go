package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aide"

// Metrics holds the assistant's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	cacheLookups  *prometheus.CounterVec
	gatewayCalls  *prometheus.CounterVec
	dispatches    *prometheus.CounterVec
	notifications *prometheus.CounterVec
	pending       prometheus.Gauge
}

// MustNew registers the collectors on reg and panics on conflicts.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups by domain and result (hit or miss).",
			},
			[]string{"domain", "result"},
		),
		gatewayCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "calls_total",
				Help:      "Calls to external gateways by gateway and outcome.",
			},
			[]string{"gateway", "outcome"},
		),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "commands_total",
				Help:      "Dispatched commands by domain, action and success.",
			},
			[]string{"domain", "action", "success"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "notify",
				Name:      "notifications_total",
				Help:      "Fired notifications by delivery status.",
			},
			[]string{"status"},
		),
		pending: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "notify",
				Name:      "pending",
				Help:      "Notifications waiting for their trigger time.",
			},
		),
	}

	reg.MustRegister(m.cacheLookups, m.gatewayCalls, m.dispatches, m.notifications, m.pending)
	return m
}

func (m *Metrics) CacheLookup(domain string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(domain, result).Inc()
}

func (m *Metrics) GatewayCall(gateway, outcome string) {
	if m == nil {
		return
	}
	m.gatewayCalls.WithLabelValues(gateway, outcome).Inc()
}

func (m *Metrics) Dispatched(domain, action string, success bool) {
	if m == nil {
		return
	}
	s := "false"
	if success {
		s = "true"
	}
	m.dispatches.WithLabelValues(domain, action, s).Inc()
}

func (m *Metrics) NotificationFired(delivered bool) {
	if m == nil {
		return
	}
	status := "failed"
	if delivered {
		status = "delivered"
	}
	m.notifications.WithLabelValues(status).Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}
