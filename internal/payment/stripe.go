package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"github.com/cinex/ticketing/internal/domain"
)

// StripePaymentProvider charges through Stripe payment intents. Card declines
// come back as a declined result; anything else is an error, which the
// booking service treats as a decline anyway.
type StripePaymentProvider struct {
	paymentMethod string
}

func NewStripePaymentProvider(paymentMethod string) *StripePaymentProvider {
	return &StripePaymentProvider{
		paymentMethod: paymentMethod,
	}
}

func (s *StripePaymentProvider) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	amountCents := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(s.paymentMethod),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		Metadata: map[string]string{
			"booking_id":  req.BookingID,
			"customer_id": req.CustomerID,
		},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return &domain.ChargeResult{
				Approved:      false,
				DeclineReason: string(stripeErr.Code),
			}, nil
		}

		return nil, err
	}

	result := &domain.ChargeResult{
		Approved:    intent.Status == stripe.PaymentIntentStatusSucceeded,
		ProviderRef: intent.ID,
	}

	if !result.Approved {
		result.DeclineReason = string(intent.Status)
	}

	return result, nil
}
