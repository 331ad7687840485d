package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"parkshare/internal/logger"
	"parkshare/internal/repository"
	"parkshare/internal/service"
)

type PaymentEvents interface {
	ConfirmPayment(ctx context.Context, sessionID, paymentIntentID string) error
	MarkRefunded(ctx context.Context, paymentIntentID string) error
}

type StripeWebhookHandler struct {
	StripeSecret string
	payments     PaymentEvents
}

func NewStripeWebhookHandler(stripeSecret string, payments PaymentEvents) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret: stripeSecret,
		payments:     payments,
	}
}

// HandleWebhook answers 200 for events it cannot act on so Stripe stops
// retrying. Storage failures answer 500 so the event is redelivered.
func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.WithError(err).Warn("error reading webhook body")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, h.StripeSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		logger.WithError(err).Warn("webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			logger.Warn("malformed checkout.session payload", "event_id", event.ID)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		paymentIntentID := ""
		if sess.PaymentIntent != nil {
			paymentIntentID = sess.PaymentIntent.ID
		}
		if err := h.payments.ConfirmPayment(r.Context(), sess.ID, paymentIntentID); err != nil {
			if !h.acknowledge(w, err, "session_id", sess.ID) {
				return
			}
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			logger.Warn("malformed charge payload", "event_id", event.ID)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			if err := h.payments.MarkRefunded(r.Context(), charge.PaymentIntent.ID); err != nil {
				if !h.acknowledge(w, err, "payment_intent", charge.PaymentIntent.ID) {
					return
				}
			}
		}

	default:
		logger.Debug("unhandled stripe event", "type", string(event.Type))
	}

	w.WriteHeader(http.StatusOK)
}

// acknowledge reports whether the event should still be answered with 200.
func (h *StripeWebhookHandler) acknowledge(w http.ResponseWriter, err error, key, value string) bool {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, service.ErrInvalidState) {
		logger.WithError(err).Warn("stripe event not applicable", key, value)
		return true
	}
	logger.WithError(err).Error("failed to apply stripe event", key, value)
	w.WriteHeader(http.StatusInternalServerError)
	return false
}
