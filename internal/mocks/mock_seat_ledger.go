package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/cinex/ticketing/internal/domain"
)

type MockSeatLedger struct {
	mock.Mock
	domain.SeatLedger
}

func (m *MockSeatLedger) RegisterShow(show *domain.Show) error {
	args := m.Called(show)
	return args.Error(0)
}

func (m *MockSeatLedger) TryClaim(showID domain.ShowID, seatIDs []domain.SeatID) (*domain.ClaimToken, error) {
	args := m.Called(showID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimToken), args.Error(1)
}

func (m *MockSeatLedger) Commit(token *domain.ClaimToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockSeatLedger) Release(token *domain.ClaimToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockSeatLedger) CancelBooked(showID domain.ShowID, seatIDs []domain.SeatID) error {
	args := m.Called(showID, seatIDs)
	return args.Error(0)
}

func (m *MockSeatLedger) Snapshot(showID domain.ShowID) (map[domain.SeatID]domain.SeatStatus, error) {
	args := m.Called(showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SeatID]domain.SeatStatus), args.Error(1)
}
