package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinex/ticketing/internal/domain"
)

func newBooking(id, customerID string, createdAt time.Time) *domain.Booking {
	return &domain.Booking{
		ID:         id,
		CustomerID: customerID,
		ShowID:     "SH1",
		SeatIDs:    []domain.SeatID{"S1", "S2"},
		TotalPrice: decimal.NewFromInt(300),
		Status:     domain.BookingStatusConfirmed,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestMemoryRepositoryCreate(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	booking := newBooking("B1", "C1", time.Now())
	require.NoError(t, repo.Create(ctx, booking))

	err := repo.Create(ctx, newBooking("B1", "C2", time.Now()))
	assert.ErrorIs(t, err, domain.ErrBookingExists)

	// the stored copy must not alias the caller's slice
	booking.SeatIDs[0] = "S9"

	got, err := repo.GetByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SeatID{"S1", "S2"}, got.SeatIDs)
}

func TestMemoryRepositoryGetByID(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "B404")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	require.NoError(t, repo.Create(ctx, newBooking("B1", "C1", time.Now())))

	got, err := repo.GetByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "C1", got.CustomerID)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(300)))
}

func TestMemoryRepositoryGetByCustomer(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newBooking("B1", "C1", base)))
	require.NoError(t, repo.Create(ctx, newBooking("B2", "C1", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newBooking("B3", "C2", base)))

	bookings, err := repo.GetByCustomer(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	// newest first
	assert.Equal(t, "B2", bookings[0].ID)
	assert.Equal(t, "B1", bookings[1].ID)

	bookings, err = repo.GetByCustomer(ctx, "C3")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestMemoryRepositoryUpdateStatus(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	err := repo.UpdateStatus(ctx, "B404", domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	require.NoError(t, repo.Create(ctx, newBooking("B1", "C1", time.Now())))

	err = repo.UpdateStatus(ctx, "B1", domain.BookingStatusPending, domain.BookingStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrEditConflict)

	err = repo.UpdateStatus(ctx, "B1", domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, got.Status)

	// a second identical transition conflicts
	err = repo.UpdateStatus(ctx, "B1", domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrEditConflict)
}
