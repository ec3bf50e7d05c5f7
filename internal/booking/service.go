// Package booking orchestrates one booking attempt end to end: claim the
// seats, price them, charge the customer, then commit or roll the claim back.
package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cinex/ticketing/internal/domain"
	"github.com/cinex/ticketing/internal/mailer"
	"github.com/cinex/ticketing/internal/pricing"
	"github.com/cinex/ticketing/internal/telemetry"
	appvalidator "github.com/cinex/ticketing/internal/validator"
)

type BookRequest struct {
	CustomerID    string          `validate:"required"`
	CustomerEmail string          `validate:"omitempty,email"`
	ShowID        domain.ShowID   `validate:"required"`
	SeatIDs       []domain.SeatID `validate:"required,min=1,unique,dive,required"`
	BasePrice     decimal.Decimal `validate:"gt=0"`
}

type Service struct {
	ledger   domain.SeatLedger
	catalog  domain.ShowCatalog
	policy   *pricing.Policy
	payments domain.PaymentProvider
	bookings domain.BookingRepository

	mailer    mailer.Mailer
	validator *validator.Validate
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	now       func() time.Time
	currency  string
	wg        sync.WaitGroup
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// WithMailer enables confirmation emails for confirmed bookings.
func WithMailer(m mailer.Mailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

func WithCurrency(currency string) Option {
	return func(s *Service) {
		if currency != "" {
			s.currency = currency
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(
	ledger domain.SeatLedger,
	catalog domain.ShowCatalog,
	policy *pricing.Policy,
	payments domain.PaymentProvider,
	bookings domain.BookingRepository,
	opts ...Option,
) *Service {
	s := &Service{
		ledger:    ledger,
		catalog:   catalog,
		policy:    policy,
		payments:  payments,
		bookings:  bookings,
		validator: appvalidator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		currency:  "USD",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Book runs one booking attempt. The payment call happens strictly between
// the claim and its commit or release, never under a ledger lock, so a slow
// provider cannot block other customers' claims. On every failure after a
// successful claim the held seats are released before Book returns.
func (s *Service) Book(ctx context.Context, req BookRequest) (*domain.Booking, error) {
	start := s.now()

	if err := s.validator.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	show, err := s.catalog.GetShow(ctx, req.ShowID)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.SeatCategory, len(req.SeatIDs))
	for i, id := range req.SeatIDs {
		seat, ok := show.Seat(id)
		if !ok {
			return nil, fmt.Errorf("%w: seat %q, show %s", domain.ErrSeatNotFound, id, req.ShowID)
		}
		categories[i] = seat.Category
	}

	total, err := s.policy.Total(req.BasePrice, categories)
	if err != nil {
		return nil, err
	}

	token, err := s.ledger.TryClaim(req.ShowID, req.SeatIDs)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:         uuid.New().String(),
		CustomerID: req.CustomerID,
		ShowID:     req.ShowID,
		SeatIDs:    token.SeatIDs(),
		TotalPrice: total,
		Status:     domain.BookingStatusPending,
		CreatedAt:  start,
		UpdatedAt:  start,
	}

	result, err := s.charge(ctx, booking)
	if err == nil && result == nil {
		err = errors.New("payment provider returned no result")
	}
	if err != nil || !result.Approved {
		s.releaseHold(token, booking)

		booking.Status = domain.BookingStatusFailed
		if result != nil {
			booking.PaymentRef = result.ProviderRef
		}
		s.recordFailure(ctx, booking)

		if err != nil {
			s.logger.Warn("payment provider failure treated as decline",
				"booking_id", booking.ID, "error", err)
			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, err)
		}
		if result.DeclineReason != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, result.DeclineReason)
		}

		return nil, domain.ErrPaymentDeclined
	}

	booking.PaymentRef = result.ProviderRef

	if err := s.ledger.Commit(token); err != nil {
		// Payment went through but the hold lapsed while the provider was
		// charging. The seats are free again; the charge needs a refund.
		s.logger.Error("payment approved but seat commit failed, refund required",
			"booking_id", booking.ID, "payment_ref", booking.PaymentRef, "error", err)

		booking.Status = domain.BookingStatusFailed
		s.recordFailure(ctx, booking)

		return nil, err
	}

	booking.Status = domain.BookingStatusConfirmed

	if err := s.bookings.Create(ctx, booking); err != nil {
		// Inventory and history must not diverge: give the seats back.
		if cErr := s.ledger.CancelBooked(booking.ShowID, booking.SeatIDs); cErr != nil {
			s.logger.Error("booked seats without a booking record, operator intervention required",
				"booking_id", booking.ID, "show_id", booking.ShowID, "error", cErr)
		}

		s.metrics.BookingFailed(ctx)

		return nil, err
	}

	s.metrics.BookingConfirmed(ctx)
	s.metrics.ObserveBookingDuration(ctx, s.now().Sub(start).Seconds())

	s.sendConfirmation(req.CustomerEmail, booking)

	return booking, nil
}

// Cancel releases the seats of a confirmed booking and marks it cancelled.
// The ledger call goes first: on a concurrent double cancellation exactly one
// caller finds the seats booked, so the status transition runs at most once.
func (s *Service) Cancel(ctx context.Context, customerID, bookingID string) error {
	if customerID == "" || bookingID == "" {
		return fmt.Errorf("%w: customer id and booking id are required", domain.ErrInvalidInput)
	}

	booking, err := s.getOwnedBooking(ctx, customerID, bookingID)
	if err != nil {
		return err
	}

	if booking.Status != domain.BookingStatusConfirmed {
		return fmt.Errorf("%w: booking %s is %s, only confirmed bookings can be cancelled",
			domain.ErrInvalidTransition, bookingID, booking.Status)
	}

	if err := s.ledger.CancelBooked(booking.ShowID, booking.SeatIDs); err != nil {
		return err
	}

	err = s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
	if err != nil {
		s.logger.Error("seats released but booking still marked confirmed, operator intervention required",
			"booking_id", bookingID, "error", err)
		return err
	}

	s.metrics.BookingCancelled(ctx)

	return nil
}

// GetBooking returns a booking owned by the customer. Bookings stay
// retrievable after cancellation.
func (s *Service) GetBooking(ctx context.Context, customerID, bookingID string) (*domain.Booking, error) {
	return s.getOwnedBooking(ctx, customerID, bookingID)
}

func (s *Service) ListBookings(ctx context.Context, customerID string) ([]domain.Booking, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}

	return s.bookings.GetByCustomer(ctx, customerID)
}

// Wait blocks until in-flight background work, such as confirmation emails,
// has finished. Called on shutdown and by tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) getOwnedBooking(ctx context.Context, customerID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// A foreign booking looks exactly like a missing one.
	if booking.CustomerID != customerID {
		return nil, domain.ErrBookingNotFound
	}

	return booking, nil
}

// charge invokes the payment provider, converting a provider panic into an
// error so the caller's release path always runs.
func (s *Service) charge(ctx context.Context, booking *domain.Booking) (result *domain.ChargeResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("payment provider panicked: %v", p)
		}
	}()

	return s.payments.Charge(ctx, domain.ChargeRequest{
		BookingID:   booking.ID,
		CustomerID:  booking.CustomerID,
		Amount:      booking.TotalPrice,
		Currency:    s.currency,
		Description: fmt.Sprintf("Seats %v, show %s", booking.SeatIDs, booking.ShowID),
	})
}

func (s *Service) releaseHold(token *domain.ClaimToken, booking *domain.Booking) {
	if err := s.ledger.Release(token); err != nil {
		s.logger.Error("failed to release held seats, operator intervention required",
			"booking_id", booking.ID, "show_id", booking.ShowID, "error", err)
	}
}

// recordFailure persists a failed booking for history. Failing to write it is
// logged, not surfaced: the seats are already settled and the caller gets the
// original error.
func (s *Service) recordFailure(ctx context.Context, booking *domain.Booking) {
	booking.UpdatedAt = s.now()

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.logger.Error("failed to record failed booking", "booking_id", booking.ID, "error", err)
	}

	s.metrics.BookingFailed(ctx)
}

func (s *Service) sendConfirmation(email string, booking *domain.Booking) {
	if s.mailer == nil || email == "" {
		return
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("panic occurred during sending confirmation mail", "panic", p)
			}
		}()

		data := map[string]any{
			"bookingID":  booking.ID,
			"showID":     booking.ShowID,
			"seats":      booking.SeatIDs,
			"totalPrice": booking.TotalPrice.StringFixed(2),
			"currency":   s.currency,
		}

		if err := s.mailer.Send(email, "booking_confirmation.tmpl", data); err != nil {
			s.logger.Error("failed to send confirmation email", "booking_id", booking.ID, "error", err)
		}
	}()
}

func invalidInput(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	messages := make([]string, len(validationErrors))
	for i, fieldErr := range validationErrors {
		messages[i] = fmt.Sprintf("%s %s", fieldErr.Field(), appvalidator.ValidationMessage(fieldErr))
	}

	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(messages, "; "))
}
