package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics bundles the instruments recorded by the ledger and the booking
// service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	claims            metric.Int64Counter
	claimConflicts    metric.Int64Counter
	holdsExpired      metric.Int64Counter
	bookingsConfirmed metric.Int64Counter
	bookingsFailed    metric.Int64Counter
	cancellations     metric.Int64Counter
	bookingDuration   metric.Float64Histogram
}

func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/cinex/ticketing")

	claims, err := meter.Int64Counter("ticketing.seat_claims",
		metric.WithDescription("Number of seat claim attempts"))
	if err != nil {
		return nil, err
	}

	claimConflicts, err := meter.Int64Counter("ticketing.seat_claim_conflicts",
		metric.WithDescription("Number of seat claims rejected due to contention"))
	if err != nil {
		return nil, err
	}

	holdsExpired, err := meter.Int64Counter("ticketing.holds_expired",
		metric.WithDescription("Number of seat holds released by timeout"))
	if err != nil {
		return nil, err
	}

	bookingsConfirmed, err := meter.Int64Counter("ticketing.bookings_confirmed",
		metric.WithDescription("Number of confirmed bookings"))
	if err != nil {
		return nil, err
	}

	bookingsFailed, err := meter.Int64Counter("ticketing.bookings_failed",
		metric.WithDescription("Number of failed booking attempts"))
	if err != nil {
		return nil, err
	}

	cancellations, err := meter.Int64Counter("ticketing.bookings_cancelled",
		metric.WithDescription("Number of cancelled bookings"))
	if err != nil {
		return nil, err
	}

	bookingDuration, err := meter.Float64Histogram("ticketing.booking_duration_seconds",
		metric.WithDescription("End-to-end duration of booking attempts"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		claims:            claims,
		claimConflicts:    claimConflicts,
		holdsExpired:      holdsExpired,
		bookingsConfirmed: bookingsConfirmed,
		bookingsFailed:    bookingsFailed,
		cancellations:     cancellations,
		bookingDuration:   bookingDuration,
	}, nil
}

func (m *Metrics) ClaimAttempt(ctx context.Context) {
	if m == nil {
		return
	}
	m.claims.Add(ctx, 1)
}

func (m *Metrics) ClaimConflict(ctx context.Context) {
	if m == nil {
		return
	}
	m.claimConflicts.Add(ctx, 1)
}

func (m *Metrics) HoldsExpired(ctx context.Context, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.holdsExpired.Add(ctx, n)
}

func (m *Metrics) BookingConfirmed(ctx context.Context) {
	if m == nil {
		return
	}
	m.bookingsConfirmed.Add(ctx, 1)
}

func (m *Metrics) BookingFailed(ctx context.Context) {
	if m == nil {
		return
	}
	m.bookingsFailed.Add(ctx, 1)
}

func (m *Metrics) BookingCancelled(ctx context.Context) {
	if m == nil {
		return
	}
	m.cancellations.Add(ctx, 1)
}

func (m *Metrics) ObserveBookingDuration(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.bookingDuration.Record(ctx, seconds)
}
