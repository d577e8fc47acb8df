package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoran",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		},
		[]string{"result"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoran",
			Name:      "notifications_total",
			Help:      "Notification deliveries by kind, audience and result",
		},
		[]string{"kind", "audience", "result"},
	)

	NotificationQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "restoran",
			Name:      "notification_queue_depth",
			Help:      "Jobs waiting in the notification queue",
		},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoran",
			Name:      "events_published_total",
			Help:      "Domain events by routing key and result",
		},
		[]string{"routing_key", "result"},
	)

	registerOnce sync.Once
)

// RegisterMetrics adds the domain collectors to the default registry once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(BookingsTotal, NotificationsTotal, NotificationQueueDepth, EventsPublished)
	})
}
