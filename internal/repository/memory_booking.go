package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cinex/ticketing/internal/domain"
)

// MemoryBookingRepository is the authoritative in-process booking store. The
// Redis and Postgres repositories are drop-in alternatives for deployments
// that want bookings to survive a restart.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[string]domain.Booking),
	}
}

func (r *MemoryBookingRepository) Create(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; ok {
		return domain.ErrBookingExists
	}

	r.bookings[booking.ID] = cloneBooking(*booking)

	return nil
}

func (r *MemoryBookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}

	booking = cloneBooking(booking)

	return &booking, nil
}

func (r *MemoryBookingRepository) GetByCustomer(_ context.Context, customerID string) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]domain.Booking, 0)

	for _, booking := range r.bookings {
		if booking.CustomerID == customerID {
			bookings = append(bookings, cloneBooking(booking))
		}
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})

	return bookings, nil
}

func (r *MemoryBookingRepository) UpdateStatus(_ context.Context, id string, from, to domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}

	if booking.Status != from {
		return domain.ErrEditConflict
	}

	booking.Status = to
	booking.UpdatedAt = time.Now()
	r.bookings[id] = booking

	return nil
}

func cloneBooking(booking domain.Booking) domain.Booking {
	seatIDs := make([]domain.SeatID, len(booking.SeatIDs))
	copy(seatIDs, booking.SeatIDs)
	booking.SeatIDs = seatIDs

	return booking
}
