package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

// Booking records the outcome of a purchase attempt. Once confirmed it is
// immutable except for the single confirmed -> cancelled transition.
type Booking struct {
	ID         string
	CustomerID string
	ShowID     ShowID
	SeatIDs    []SeatID
	TotalPrice decimal.Decimal
	Status     BookingStatus
	PaymentRef string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetByCustomer(ctx context.Context, customerID string) ([]Booking, error)

	// UpdateStatus transitions a booking from one status to another, failing
	// with ErrEditConflict if the booking is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to BookingStatus) error
}
