package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkshare_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parkshare_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AvailabilityReplacesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkshare_availability_replaces_total",
			Help: "Total number of availability replace operations",
		},
		[]string{"result"},
	)

	AvailabilitySlotsWritten = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parkshare_availability_slots_written",
			Help:    "Number of slots written per availability replace",
			Buckets: []float64{0, 1, 7, 14, 31, 62, 93, 186, 366},
		},
	)

	AvailabilityCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkshare_availability_cache_total",
			Help: "Availability cache lookups by result",
		},
		[]string{"result"},
	)

	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkshare_quotes_total",
			Help: "Total number of price quotes",
		},
		[]string{"billing", "available"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkshare_bookings_total",
			Help: "Booking status transitions",
		},
		[]string{"status"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkshare_notifications_sent_total",
			Help: "Total number of notifications sent",
		},
		[]string{"channel", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordAvailabilityReplace(slots int, err error) {
	if err != nil {
		AvailabilityReplacesTotal.WithLabelValues("error").Inc()
		return
	}
	AvailabilityReplacesTotal.WithLabelValues("ok").Inc()
	AvailabilitySlotsWritten.Observe(float64(slots))
}

func RecordCacheLookup(hit bool) {
	if hit {
		AvailabilityCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	AvailabilityCacheTotal.WithLabelValues("miss").Inc()
}

func RecordQuote(hourly, available bool) {
	billing := "daily"
	if hourly {
		billing = "hourly"
	}
	a := "false"
	if available {
		a = "true"
	}
	QuotesTotal.WithLabelValues(billing, a).Inc()
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordNotification(channel, status string) {
	NotificationsSentTotal.WithLabelValues(channel, status).Inc()
}
