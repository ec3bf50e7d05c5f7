package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinex/ticketing/internal/domain"
)

// RedisBookingRepository stores bookings as JSON values keyed by booking id,
// with a per-customer set for listing. Status updates run under WATCH so a
// concurrent writer turns into an edit conflict rather than a lost update.
type RedisBookingRepository struct {
	client redis.UniversalClient
}

func NewRedisBookingRepository(client redis.UniversalClient) *RedisBookingRepository {
	return &RedisBookingRepository{
		client: client,
	}
}

func bookingKey(id string) string {
	return fmt.Sprintf("booking:%s", id)
}

func customerBookingsKey(customerID string) string {
	return fmt.Sprintf("customer_bookings:%s", customerID)
}

func (r *RedisBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	payload, err := json.Marshal(booking)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, bookingKey(booking.ID), payload, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrBookingExists
	}

	return r.client.SAdd(ctx, customerBookingsKey(booking.CustomerID), booking.ID).Err()
}

func (r *RedisBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	payload, err := r.client.Get(ctx, bookingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	var booking domain.Booking
	if err := json.Unmarshal(payload, &booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *RedisBookingRepository) GetByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	ids, err := r.client.SMembers(ctx, customerBookingsKey(customerID)).Result()
	if err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(ids))

	for _, id := range ids {
		booking, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrBookingNotFound) {
				// Dangling set member, the booking key was removed.
				continue
			}

			return nil, err
		}

		bookings = append(bookings, *booking)
	}

	return bookings, nil
}

func (r *RedisBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	key := bookingKey(id)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrBookingNotFound
			}

			return err
		}

		var booking domain.Booking
		if err := json.Unmarshal(payload, &booking); err != nil {
			return err
		}

		if booking.Status != from {
			return domain.ErrEditConflict
		}

		booking.Status = to
		booking.UpdatedAt = time.Now()

		updated, err := json.Marshal(booking)
		if err != nil {
			return err
		}

		pipe := tx.TxPipeline()
		pipe.Set(ctx, key, updated, 0)

		_, err = pipe.Exec(ctx)

		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return domain.ErrEditConflict
	}

	return err
}
