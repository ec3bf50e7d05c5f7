package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cinex/ticketing/internal/domain"
)

type MockShowCatalog struct {
	mock.Mock
	domain.ShowCatalog
}

func (m *MockShowCatalog) GetShow(ctx context.Context, showID domain.ShowID) (*domain.Show, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}
