package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for the approval service
var (
	OrdersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatapproval_orders_created_total",
			Help: "Total number of orders accepted by intake",
		},
	)

	IntakeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatapproval_intake_failures_total",
			Help: "Total number of rejected or failed order intakes",
		},
		[]string{"reason"},
	)

	RepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatapproval_replies_total",
			Help: "Total number of parsed approval replies by engine outcome",
		},
		[]string{"outcome"},
	)

	OrdersSettledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatapproval_orders_settled_total",
			Help: "Total number of orders reaching a terminal status",
		},
		[]string{"status"},
	)

	ActiveOrders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatapproval_active_orders",
			Help: "Number of orders awaiting responses",
		},
	)

	PersistenceFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatapproval_persistence_failures_total",
			Help: "Total number of failed order store flushes",
		},
	)

	CallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatapproval_callbacks_total",
			Help: "Total number of webhook callbacks by result",
		},
		[]string{"result"},
	)

	CallbackDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatapproval_callback_duration_seconds",
			Help:    "Duration of webhook callback requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	MessagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatapproval_messages_sent_total",
			Help: "Total number of outbound chat messages by kind and result",
		},
		[]string{"kind", "result"},
	)
)

var registerOnce sync.Once

// Register registers all metrics with the default registerer; repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		MustRegister(prometheus.DefaultRegisterer)
	})
}

// MustRegister registers all metrics with registerer
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		OrdersCreatedTotal,
		IntakeFailuresTotal,
		RepliesTotal,
		OrdersSettledTotal,
		ActiveOrders,
		PersistenceFailuresTotal,
		CallbacksTotal,
		CallbackDuration,
		MessagesSentTotal,
	)
}

// Result returns "ok" for a nil error and "error" otherwise.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
