// Package ledger holds the authoritative in-memory record of seat status per
// show. It is the only component allowed to transition a seat between
// available, held and booked.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cinex/ticketing/internal/domain"
	"github.com/cinex/ticketing/internal/telemetry"
)

const (
	// Held seats not committed or released within this window are treated as
	// abandoned and swept back to available, matching the seat lock TTL used
	// for carts elsewhere in the platform.
	defaultHoldTTL = 10 * time.Minute

	defaultSweepInterval = time.Minute
)

type seatState struct {
	status       domain.SeatStatus
	holdToken    string
	holdDeadline time.Time
}

// showState serializes every check-and-transition over one show's seats behind
// a single mutex, so "all requested seats are available" and the subsequent
// held transition are observed as one atomic step.
type showState struct {
	mu    sync.Mutex
	seats map[domain.SeatID]*seatState
}

type Ledger struct {
	mu    sync.RWMutex
	shows map[domain.ShowID]*showState

	holdTTL       time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger
	metrics       *telemetry.Metrics
}

type Option func(*Ledger)

// WithHoldTTL overrides the default hold timeout.
func WithHoldTTL(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.holdTTL = d
		}
	}
}

// WithSweepInterval overrides how often the background sweeper runs.
func WithSweepInterval(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.sweepInterval = d
		}
	}
}

// WithClock replaces the time source, used by tests to lapse holds without
// sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = metrics
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		shows:         make(map[domain.ShowID]*showState),
		holdTTL:       defaultHoldTTL,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// RegisterShow seeds every seat of the show as available. The seat set is
// fixed from this point on.
func (l *Ledger) RegisterShow(show *domain.Show) error {
	if show == nil || len(show.Seats) == 0 {
		return fmt.Errorf("%w: show must have at least one seat", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.shows[show.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrShowAlreadyExists, show.ID)
	}

	seats := make(map[domain.SeatID]*seatState, len(show.Seats))
	for _, seat := range show.Seats {
		seats[seat.ID] = &seatState{status: domain.SeatAvailable}
	}

	l.shows[show.ID] = &showState{seats: seats}

	return nil
}

func (l *Ledger) showState(showID domain.ShowID) (*showState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state, ok := l.shows[showID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrShowNotFound, showID)
	}

	return state, nil
}

// expireLapsed releases every hold whose deadline has passed. Callers must
// hold the show mutex. This is the only spontaneous transition the ledger
// performs.
func (l *Ledger) expireLapsed(state *showState, now time.Time) int64 {
	var expired int64

	for _, seat := range state.seats {
		if seat.status == domain.SeatHeld && now.After(seat.holdDeadline) {
			seat.status = domain.SeatAvailable
			seat.holdToken = ""
			seat.holdDeadline = time.Time{}
			expired++
		}
	}

	return expired
}

// TryClaim atomically moves every requested seat from available to held and
// returns a single-use token for the claim. If any seat is unavailable the
// whole claim fails with a SeatUnavailableError naming the conflicting subset
// and no seat changes state.
func (l *Ledger) TryClaim(showID domain.ShowID, seatIDs []domain.SeatID) (*domain.ClaimToken, error) {
	if len(seatIDs) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", domain.ErrInvalidInput)
	}

	state, err := l.showState(showID)
	if err != nil {
		return nil, err
	}

	l.metrics.ClaimAttempt(context.Background())

	state.mu.Lock()
	defer state.mu.Unlock()

	now := l.now()
	l.metrics.HoldsExpired(context.Background(), l.expireLapsed(state, now))

	seen := make(map[domain.SeatID]bool, len(seatIDs))
	var unavailable []domain.SeatID

	for _, id := range seatIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate seat id %q", domain.ErrInvalidInput, id)
		}
		seen[id] = true

		seat, ok := state.seats[id]
		if !ok {
			return nil, fmt.Errorf("%w: seat %q, show %s", domain.ErrSeatNotFound, id, showID)
		}

		if seat.status != domain.SeatAvailable {
			unavailable = append(unavailable, id)
		}
	}

	if len(unavailable) > 0 {
		l.metrics.ClaimConflict(context.Background())
		return nil, domain.NewSeatUnavailableError(showID, unavailable)
	}

	token := domain.NewClaimToken(showID, seatIDs)
	deadline := now.Add(l.holdTTL)

	for _, id := range seatIDs {
		seat := state.seats[id]
		seat.status = domain.SeatHeld
		seat.holdToken = token.ID()
		seat.holdDeadline = deadline
	}

	return token, nil
}

// Commit moves every seat named by the token from held to booked, consuming
// the token. A token whose hold lapsed before commit fails with ErrHoldExpired
// and any remaining holds of that token are released.
func (l *Ledger) Commit(token *domain.ClaimToken) error {
	return l.settle(token, domain.SeatBooked)
}

// Release returns every seat still held by the token to available, consuming
// the token. Seats whose hold already lapsed are left as they are: the goal of
// a release is reached either way.
func (l *Ledger) Release(token *domain.ClaimToken) error {
	return l.settle(token, domain.SeatAvailable)
}

func (l *Ledger) settle(token *domain.ClaimToken, target domain.SeatStatus) error {
	if token == nil {
		return domain.ErrInvalidToken
	}

	state, err := l.showState(token.ShowID())
	if err != nil {
		return err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if !token.Consume() {
		return domain.ErrInvalidToken
	}

	l.metrics.HoldsExpired(context.Background(), l.expireLapsed(state, l.now()))

	seatIDs := token.SeatIDs()
	held := make([]*seatState, 0, len(seatIDs))
	lapsed := false

	for _, id := range seatIDs {
		seat, ok := state.seats[id]
		if !ok {
			return fmt.Errorf("%w: seat %q, show %s", domain.ErrSeatNotFound, id, token.ShowID())
		}

		if seat.status == domain.SeatHeld && seat.holdToken == token.ID() {
			held = append(held, seat)
		} else {
			lapsed = true
		}
	}

	if lapsed && target == domain.SeatBooked {
		// The hold timed out mid-flight. Free whatever part of it is still
		// ours rather than booking a torn subset.
		for _, seat := range held {
			seat.status = domain.SeatAvailable
			seat.holdToken = ""
			seat.holdDeadline = time.Time{}
		}

		return domain.ErrHoldExpired
	}

	for _, seat := range held {
		seat.status = target
		seat.holdToken = ""
		seat.holdDeadline = time.Time{}
	}

	return nil
}

// CancelBooked returns booked seats to available, used when a confirmed
// booking is cancelled. All-or-nothing: if any named seat is not booked the
// call fails with a NotBookedError and nothing changes.
func (l *Ledger) CancelBooked(showID domain.ShowID, seatIDs []domain.SeatID) error {
	if len(seatIDs) == 0 {
		return fmt.Errorf("%w: no seats requested", domain.ErrInvalidInput)
	}

	state, err := l.showState(showID)
	if err != nil {
		return err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	var notBooked []domain.SeatID

	for _, id := range seatIDs {
		seat, ok := state.seats[id]
		if !ok {
			return fmt.Errorf("%w: seat %q, show %s", domain.ErrSeatNotFound, id, showID)
		}

		if seat.status != domain.SeatBooked {
			notBooked = append(notBooked, id)
		}
	}

	if len(notBooked) > 0 {
		return domain.NewNotBookedError(showID, notBooked)
	}

	for _, id := range seatIDs {
		state.seats[id].status = domain.SeatAvailable
	}

	return nil
}

// Snapshot returns the status of every seat of the show as observed at one
// instant under the show lock. The view may be stale by the time the caller
// reads it, but it is never torn.
func (l *Ledger) Snapshot(showID domain.ShowID) (map[domain.SeatID]domain.SeatStatus, error) {
	state, err := l.showState(showID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	l.metrics.HoldsExpired(context.Background(), l.expireLapsed(state, l.now()))

	snapshot := make(map[domain.SeatID]domain.SeatStatus, len(state.seats))
	for id, seat := range state.seats {
		snapshot[id] = seat.status
	}

	return snapshot, nil
}

// RunSweeper periodically releases lapsed holds until the context is
// cancelled. Expiry is also enforced lazily on access, so the sweeper only
// bounds how long an untouched show can keep stale holds.
func (l *Ledger) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	l.logger.Info("hold sweeper started", "interval", l.sweepInterval, "hold_ttl", l.holdTTL)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("hold sweeper stopped")
			return
		case <-ticker.C:
			if n := l.sweep(); n > 0 {
				l.logger.Info("released expired seat holds", "count", n)
			}
		}
	}
}

func (l *Ledger) sweep() int64 {
	l.mu.RLock()
	states := make([]*showState, 0, len(l.shows))
	for _, state := range l.shows {
		states = append(states, state)
	}
	l.mu.RUnlock()

	var total int64

	for _, state := range states {
		state.mu.Lock()
		total += l.expireLapsed(state, l.now())
		state.mu.Unlock()
	}

	l.metrics.HoldsExpired(context.Background(), total)

	return total
}
