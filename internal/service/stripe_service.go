package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
)

type CheckoutParams struct {
	AmountCents   int64
	Currency      string
	Description   string
	CustomerEmail string
	Metadata      map[string]string
}

// checkoutLifetime is how long a checkout session stays payable. Stripe
// rejects anything under 30 minutes.
const checkoutLifetime = 31 * time.Minute

type StripeService struct {
	successURL string
	cancelURL  string
	now        func() time.Time
}

func NewStripeService(successURL, cancelURL string) *StripeService {
	return &StripeService{successURL: successURL, cancelURL: cancelURL, now: time.Now}
}

// CreateCheckoutSession returns the hosted checkout URL and the session ID.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Description),
					},
					UnitAmount: stripe.Int64(p.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		ExpiresAt:  stripe.Int64(s.now().Add(checkoutLifetime).Unix()),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("error creating checkout session: %w", err)
	}
	return sess.URL, sess.ID, nil
}

// ExpireCheckoutSession closes an open checkout session so it can no longer
// be paid.
func (s *StripeService) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx
	if _, err := session.Expire(sessionID, params); err != nil {
		return fmt.Errorf("error expiring checkout session %s: %w", sessionID, err)
	}
	return nil
}

// Refund refunds the payment intent in full. When the intent is unknown it is
// looked up from the checkout session. A charge that is already refunded
// counts as success.
func (s *StripeService) Refund(ctx context.Context, paymentIntentID, sessionID string) error {
	if paymentIntentID == "" {
		id, err := s.paymentIntentForSession(ctx, sessionID)
		if err != nil {
			return err
		}
		paymentIntentID = id
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx
	if _, err := refund.New(params); err != nil {
		if alreadyRefunded(err) {
			return nil
		}
		return fmt.Errorf("error refunding payment intent %s: %w", paymentIntentID, err)
	}
	return nil
}

func (s *StripeService) paymentIntentForSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("no payment reference to refund")
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(sessionID, params)
	if err != nil {
		return "", fmt.Errorf("error fetching checkout session %s: %w", sessionID, err)
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return "", fmt.Errorf("no payment intent found for session %s", sessionID)
	}
	return sess.PaymentIntent.ID, nil
}

func alreadyRefunded(err error) bool {
	var stripeErr *stripe.Error
	return errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeChargeAlreadyRefunded
}
