package apiclient

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-questpath-client/model"
)

const PlanPremium = "premium"

// Checkout starts a premium checkout and returns the hosted payment page URL.
// An already-premium user gets a 400 with detail code ALREADY_PREMIUM.
func (c *Client) Checkout(ctx context.Context, plan string) (*model.CheckoutSession, error) {
	if plan == "" {
		plan = PlanPremium
	}
	var session model.CheckoutSession
	if err := c.Post(ctx, "/payment/checkout", model.CheckoutRequest{Plan: plan}, &session); err != nil {
		return nil, err
	}
	if session.URL == "" {
		return nil, fmt.Errorf("no checkout url returned")
	}
	return &session, nil
}

func (c *Client) CancelSubscription(ctx context.Context) (*model.Cancellation, error) {
	var cancellation model.Cancellation
	if err := c.Post(ctx, "/payment/cancel-subscription", nil, &cancellation); err != nil {
		return nil, err
	}
	return &cancellation, nil
}
