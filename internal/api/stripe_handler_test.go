package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82/webhook"

	"parkshare/internal/repository"
)

const webhookSecret = "whsec_test"

func (ts *testServer) webhook(payload string, secret string) *httptest.ResponseRecorder {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(signed.Payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

const sessionCompleted = `{"id":"evt_1","object":"event","type":"checkout.session.completed",
	"data":{"object":{"id":"cs_1","object":"checkout.session","payment_intent":"pi_1"}}}`

const chargeRefunded = `{"id":"evt_2","object":"event","type":"charge.refunded",
	"data":{"object":{"id":"ch_1","object":"charge","payment_intent":"pi_1"}}}`

func TestWebhookCheckoutCompleted(t *testing.T) {
	ts := newTestServer()
	ts.payments.On("ConfirmPayment", mock.Anything, "cs_1", "pi_1").Return(nil)

	w := ts.webhook(sessionCompleted, webhookSecret)
	assert.Equal(t, http.StatusOK, w.Code)
	ts.payments.AssertExpectations(t)
}

func TestWebhookChargeRefunded(t *testing.T) {
	ts := newTestServer()
	ts.payments.On("MarkRefunded", mock.Anything, "pi_1").Return(nil)

	w := ts.webhook(chargeRefunded, webhookSecret)
	assert.Equal(t, http.StatusOK, w.Code)
	ts.payments.AssertExpectations(t)
}

func TestWebhookBadSignature(t *testing.T) {
	ts := newTestServer()
	w := ts.webhook(sessionCompleted, "whsec_other")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	ts.payments.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookUnknownBookingIsAcknowledged(t *testing.T) {
	ts := newTestServer()
	ts.payments.On("ConfirmPayment", mock.Anything, "cs_1", "pi_1").Return(repository.ErrNotFound)

	w := ts.webhook(sessionCompleted, webhookSecret)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookStorageFailureIsRetried(t *testing.T) {
	ts := newTestServer()
	ts.payments.On("ConfirmPayment", mock.Anything, "cs_1", "pi_1").Return(errors.New("db down"))

	w := ts.webhook(sessionCompleted, webhookSecret)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookUnhandledEvent(t *testing.T) {
	ts := newTestServer()
	w := ts.webhook(`{"id":"evt_3","object":"event","type":"customer.created","data":{"object":{}}}`, webhookSecret)
	assert.Equal(t, http.StatusOK, w.Code)
}
