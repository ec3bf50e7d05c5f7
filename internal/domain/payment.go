package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeRequest asks the payment provider to charge a customer for a booking.
type ChargeRequest struct {
	BookingID   string
	CustomerID  string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// ChargeResult is the provider's verdict. Anything other than an approved
// result, including a transport error, is treated as a decline by the booking
// service.
type ChargeResult struct {
	Approved      bool
	ProviderRef   string
	DeclineReason string
}

type PaymentProvider interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
