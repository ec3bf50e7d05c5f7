package domain

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrSeatUnavailable     = errors.New("seat(s) are not available")
	ErrInvalidToken        = errors.New("claim token already consumed or unknown")
	ErrInvalidTransition   = errors.New("illegal seat status transition")
	ErrHoldExpired         = errors.New("your seat hold has expired, please select your seats again")
	ErrPaymentDeclined     = errors.New("payment was declined")
	ErrNotBooked           = errors.New("seat(s) are not booked")
	ErrUnknownCategory     = errors.New("no pricing registered for seat category")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingExists       = errors.New("booking already exists")
	ErrShowNotFound        = errors.New("show not found")
	ErrShowAlreadyExists   = errors.New("show already registered")
	ErrSeatNotFound        = errors.New("seat does not belong to show")
	ErrTheaterNotFound     = errors.New("theater not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrEditConflict        = errors.New("edit conflict")
)

// SeatUnavailableError reports the exact subset of a claim that conflicted, so
// callers can offer alternatives.
type SeatUnavailableError struct {
	ShowID  ShowID
	SeatIDs []SeatID
}

func NewSeatUnavailableError(showID ShowID, seatIDs []SeatID) *SeatUnavailableError {
	sorted := make([]SeatID, len(seatIDs))
	copy(sorted, seatIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &SeatUnavailableError{ShowID: showID, SeatIDs: sorted}
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat(s) %v of show %s are not available", e.SeatIDs, e.ShowID)
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

// NotBookedError reports the seats of a cancellation request that are not
// currently booked.
type NotBookedError struct {
	ShowID  ShowID
	SeatIDs []SeatID
}

func NewNotBookedError(showID ShowID, seatIDs []SeatID) *NotBookedError {
	sorted := make([]SeatID, len(seatIDs))
	copy(sorted, seatIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &NotBookedError{ShowID: showID, SeatIDs: sorted}
}

func (e *NotBookedError) Error() string {
	return fmt.Sprintf("seat(s) %v of show %s are not booked", e.SeatIDs, e.ShowID)
}

func (e *NotBookedError) Is(target error) bool {
	return target == ErrNotBooked
}
