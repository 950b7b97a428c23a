package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order lifecycle events and notification outcomes.
type OrderMetrics struct {
	submitted     *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Orders accepted at checkout by fulfillment method.",
	}, []string{"fulfillment"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Admin status transitions by target status.",
	}, []string{"status"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_notifications_total",
		Help: "Status notification attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(submitted, statusChanges, notifications)
	return &OrderMetrics{
		submitted:     submitted,
		statusChanges: statusChanges,
		notifications: notifications,
	}
}

func (m *OrderMetrics) IncSubmitted(fulfillment string) {
	if m == nil || m.submitted == nil {
		return
	}
	m.submitted.WithLabelValues(normalizeLabel(fulfillment)).Inc()
}

func (m *OrderMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveNotification records a notification attempt; err == nil counts as sent.
func (m *OrderMetrics) ObserveNotification(err error) {
	if m == nil || m.notifications == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.notifications.WithLabelValues(outcome).Inc()
}
