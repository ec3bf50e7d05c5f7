package payment

import (
	"context"

	"github.com/cinex/ticketing/internal/domain"
)

// MockPaymentProvider approves every charge unless a Decide function says
// otherwise. Used by the demo binary and by tests that need a deterministic
// oracle.
type MockPaymentProvider struct {
	Decide func(req domain.ChargeRequest) bool
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) Charge(_ context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	approved := true
	if m.Decide != nil {
		approved = m.Decide(req)
	}

	result := &domain.ChargeResult{
		Approved:    approved,
		ProviderRef: "mock_" + req.BookingID,
	}

	if !approved {
		result.DeclineReason = "declined by test policy"
	}

	return result, nil
}
