package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinex/ticketing/internal/domain"
)

func marshalBooking(t *testing.T, booking *domain.Booking) []byte {
	t.Helper()

	payload, err := json.Marshal(booking)
	require.NoError(t, err)

	return payload
}

func TestRedisRepositoryCreate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBookingRepository(client)
	ctx := context.Background()

	booking := newBooking("B1", "C1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	payload := marshalBooking(t, booking)

	mock.ExpectSetNX("booking:B1", payload, 0).SetVal(true)
	mock.ExpectSAdd("customer_bookings:C1", "B1").SetVal(1)

	require.NoError(t, repo.Create(ctx, booking))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepositoryCreateRejectsDuplicates(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBookingRepository(client)
	ctx := context.Background()

	booking := newBooking("B1", "C1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	mock.ExpectSetNX("booking:B1", marshalBooking(t, booking), 0).SetVal(false)

	err := repo.Create(ctx, booking)
	assert.ErrorIs(t, err, domain.ErrBookingExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepositoryGetByID(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBookingRepository(client)
	ctx := context.Background()

	booking := newBooking("B1", "C1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	mock.ExpectGet("booking:B1").SetVal(string(marshalBooking(t, booking)))

	got, err := repo.GetByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "C1", got.CustomerID)
	assert.Equal(t, []domain.SeatID{"S1", "S2"}, got.SeatIDs)
	assert.True(t, got.TotalPrice.Equal(booking.TotalPrice))

	mock.ExpectGet("booking:B404").RedisNil()

	_, err = repo.GetByID(ctx, "B404")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepositoryGetByCustomerSkipsDanglingMembers(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBookingRepository(client)
	ctx := context.Background()

	kept := newBooking("B1", "C1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	mock.ExpectSMembers("customer_bookings:C1").SetVal([]string{"B1", "B2"})
	mock.ExpectGet("booking:B1").SetVal(string(marshalBooking(t, kept)))
	mock.ExpectGet("booking:B2").RedisNil()

	bookings, err := repo.GetByCustomer(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "B1", bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepositoryUpdateStatus(t *testing.T) {
	t.Run("should fail when the booking does not exist", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBookingRepository(client)

		mock.ExpectWatch("booking:B404")
		mock.ExpectGet("booking:B404").RedisNil()

		err := repo.UpdateStatus(context.Background(), "B404",
			domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("should fail when the stored status differs", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBookingRepository(client)

		booking := newBooking("B1", "C1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
		booking.Status = domain.BookingStatusFailed

		mock.ExpectWatch("booking:B1")
		mock.ExpectGet("booking:B1").SetVal(string(marshalBooking(t, booking)))

		err := repo.UpdateStatus(context.Background(), "B1",
			domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
		assert.ErrorIs(t, err, domain.ErrEditConflict)
	})
}
