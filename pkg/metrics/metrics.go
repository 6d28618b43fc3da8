package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "snaplink"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SlotValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_validation_failures_total",
			Help:      "Rejected slot submissions, by error code",
		},
		[]string{"code"},
	)

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Persisted booking status transitions",
		},
		[]string{"from", "to"},
	)

	DistanceConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distance_conflicts_total",
			Help:      "Booking candidates flagged with insufficient travel time",
		},
	)

	BookingRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_retries_total",
			Help:      "Retries of booking operations after a concurrency conflict",
		},
		[]string{"operation"},
	)

	ExpiredBookings = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_bookings_total",
			Help:      "Pending bookings moved to Expired by the cleanup sweep",
		},
	)

	CleanupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_runs_total",
			Help:      "Cleanup sweep decisions, by outcome",
		},
		[]string{"outcome"},
	)

	HTTPAborts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_aborted_requests_total",
			Help:      "Requests answered by the middleware after a panic or deadline, by reason",
		},
		[]string{"reason", "route"},
	)

	KafkaMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Kafka messages produced or consumed",
		},
		[]string{"direction", "topic", "status"},
	)

	KafkaMessageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_message_duration_seconds",
			Help:      "Time to publish or handle one Kafka message",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction", "topic"},
	)
)

func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordHTTPAbort(reason, route string) {
	HTTPAborts.WithLabelValues(reason, route).Inc()
}

func RecordSlotValidationFailure(code string) {
	SlotValidationFailures.WithLabelValues(code).Inc()
}

func RecordTransition(from, to string) {
	BookingTransitions.WithLabelValues(from, to).Inc()
}

func RecordDistanceConflict() {
	DistanceConflicts.Inc()
}

func RecordRetry(operation string) {
	BookingRetries.WithLabelValues(operation).Inc()
}

func RecordExpired(n int) {
	ExpiredBookings.Add(float64(n))
}

func RecordCleanup(outcome string) {
	CleanupRuns.WithLabelValues(outcome).Inc()
}

func RecordKafkaMessage(direction, topic, status string, seconds float64) {
	KafkaMessagesTotal.WithLabelValues(direction, topic, status).Inc()
	KafkaMessageDuration.WithLabelValues(direction, topic).Observe(seconds)
}
