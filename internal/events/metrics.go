package events

import "github.com/prometheus/client_golang/prometheus"

var (
	Subscriptions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_event_subscriptions",
		Help: "Open event bus subscriptions on this instance",
	})

	Delivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_delivered_total",
		Help: "Events handed to a subscription buffer",
	}, []string{"type"})

	Dropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_dropped_total",
		Help: "Events that were not delivered, by reason",
	}, []string{"type", "reason"})
)

const (
	dropNoSubscribers = "no_subscribers"
	dropBufferFull    = "buffer_full"
	dropClosed        = "closed"
)

// InitMetrics registers the bus collectors with the default registry.
func InitMetrics() {
	prometheus.MustRegister(Subscriptions, Delivered, Dropped)
}
