package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

func TestAlreadyRefunded(t *testing.T) {
	refunded := &stripe.Error{Code: stripe.ErrorCodeChargeAlreadyRefunded}
	assert.True(t, alreadyRefunded(refunded))
	assert.True(t, alreadyRefunded(fmt.Errorf("refund: %w", refunded)))
	assert.False(t, alreadyRefunded(&stripe.Error{Code: stripe.ErrorCodeResourceMissing}))
	assert.False(t, alreadyRefunded(errors.New("timeout")))
}

func TestCheckoutLifetimeMeetsStripeMinimum(t *testing.T) {
	assert.GreaterOrEqual(t, checkoutLifetime, 30*time.Minute)
	assert.LessOrEqual(t, checkoutLifetime, 24*time.Hour)
}
