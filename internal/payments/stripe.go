package payments

import (
	"context"
	"time"

	apperrors "nomadhub/pkg/errors"
	"nomadhub/pkg/logger"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeAuthorizer authorizes amounts as Stripe PaymentIntents. The returned
// client secret lets the guest confirm the payment in the browser; the
// booking only stores the intent id.
type StripeAuthorizer struct {
	api      *client.API
	currency string
	timeout  time.Duration
	log      *logger.Logger
}

func NewStripeAuthorizer(secretKey, currency string, timeout time.Duration, log *logger.Logger) *StripeAuthorizer {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeAuthorizer{
		api:      api,
		currency: currency,
		timeout:  timeout,
		log:      log,
	}
}

func (a *StripeAuthorizer) Authorize(ctx context.Context, amountMinorUnits int64, metadata map[string]string) (*Authorization, error) {
	if amountMinorUnits <= 0 {
		return nil, apperrors.InvalidAmount("amount must be greater than zero")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amountMinorUnits),
		Currency:           stripe.String(a.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := a.api.PaymentIntents.New(params)
	if err != nil {
		a.log.Error("Payment authorization failed",
			"amount_minor_units", amountMinorUnits,
			"currency", a.currency,
			"error", err,
		)
		return nil, apperrors.AuthorizationFailed("payment processor rejected the authorization", err)
	}

	a.log.Info("Payment authorized",
		"payment_ref", intent.ID,
		"amount_minor_units", amountMinorUnits,
		"currency", a.currency,
	)

	return &Authorization{
		Reference:    intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
