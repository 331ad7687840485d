package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/spaces/{id}/availability", "200", 0.02)
	RecordHTTPRequest("GET", "/api/spaces/{id}/availability", "200", 0.03)
	RecordHTTPRequest("GET", "/api/spaces/{id}/availability", "500", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/spaces/{id}/availability", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/spaces/{id}/availability", "500")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordAvailabilityReplace(t *testing.T) {
	AvailabilityReplacesTotal.Reset()

	RecordAvailabilityReplace(5, nil)
	RecordAvailabilityReplace(0, errors.New("db down"))

	assert.Equal(t, float64(1), testutil.ToFloat64(AvailabilityReplacesTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(AvailabilityReplacesTotal.WithLabelValues("error")))
}

func TestRecordCacheLookup(t *testing.T) {
	AvailabilityCacheTotal.Reset()

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(AvailabilityCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, float64(2), testutil.ToFloat64(AvailabilityCacheTotal.WithLabelValues("miss")))
}

func TestRecordQuote(t *testing.T) {
	QuotesTotal.Reset()

	RecordQuote(true, true)
	RecordQuote(false, false)

	assert.Equal(t, float64(1), testutil.ToFloat64(QuotesTotal.WithLabelValues("hourly", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(QuotesTotal.WithLabelValues("daily", "false")))
}

func TestRecordBookingAndNotification(t *testing.T) {
	BookingsTotal.Reset()
	NotificationsSentTotal.Reset()

	RecordBooking("pending")
	RecordBooking("pending")
	RecordNotification("email", "ok")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingsTotal.WithLabelValues("pending")))
	assert.Equal(t, float64(1), testutil.ToFloat64(NotificationsSentTotal.WithLabelValues("email", "ok")))
}
