package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/videosplus/backend-videos/internal/common"
)

// StripeAdapter implements the hosted checkout channel with Stripe Checkout.
// The buyer leaves for a provider-hosted page; continuation happens on the
// success or cancel redirect, never through an in-process callback.
type StripeAdapter struct {
	BaseURL string
}

func (a *StripeAdapter) Channel() Channel { return ChannelHostedCheckout }

// Begin creates a Checkout Session for the masked intent and returns the
// hosted payment page URL.
func (a *StripeAdapter) Begin(_ context.Context, params BeginParams) (BeginResult, error) {
	snap := params.Snapshot
	if snap.HostedCheckoutPublicKey == "" || snap.HostedCheckoutSecretKey == "" {
		return BeginResult{}, common.ErrConfiguration(errors.New("stripe keys not configured"))
	}
	if params.Intent.ContentID == "" {
		return BeginResult{}, common.ErrIntentUnavailable(errors.New("no content loaded"))
	}

	stripe.Key = snap.HostedCheckoutSecretKey

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(hostedSuccessURL(a.BaseURL, params.Intent.ContentID)),
		CancelURL:  stripe.String(cancelURL(a.BaseURL, params.Intent.ContentID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(params.Intent.Currency)),
					UnitAmount: stripe.Int64(params.Intent.AmountMinorUnits),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.Intent.MaskedLabel),
					},
				},
			},
		},
	}

	s, err := session.New(sessionParams)
	if err != nil {
		return BeginResult{}, common.ErrSessionCreateFailed(err)
	}
	return BeginResult{SessionID: s.ID, RedirectURL: s.URL, Status: StatusPending}, nil
}
