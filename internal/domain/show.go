package domain

import (
	"fmt"
	"time"
)

type ShowID string

// Show is an ordered, fixed collection of seats screened over a time window.
type Show struct {
	ID        ShowID
	MovieID   string
	StartTime time.Time
	EndTime   time.Time
	Seats     []Seat

	seatIndex map[SeatID]int
}

// NewShow validates and constructs a show. Validation happens here, at
// construction, instead of through staged setter calls: the show's identity,
// time window and seat list never change afterwards.
func NewShow(id ShowID, movieID string, start, end time.Time, seats []Seat) (*Show, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: show id must not be empty", ErrInvalidInput)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: show end time must be after start time", ErrInvalidInput)
	}
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: show must have at least one seat", ErrInvalidInput)
	}

	index := make(map[SeatID]int, len(seats))
	for i, seat := range seats {
		if seat.ID == "" {
			return nil, fmt.Errorf("%w: seat id must not be empty", ErrInvalidInput)
		}
		if _, ok := index[seat.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate seat id %q", ErrInvalidInput, seat.ID)
		}
		index[seat.ID] = i
	}

	return &Show{
		ID:        id,
		MovieID:   movieID,
		StartTime: start,
		EndTime:   end,
		Seats:     seats,
		seatIndex: index,
	}, nil
}

// Seat returns the seat with the given id, if it belongs to the show.
func (s *Show) Seat(id SeatID) (Seat, bool) {
	if s.seatIndex != nil {
		i, ok := s.seatIndex[id]
		if !ok {
			return Seat{}, false
		}
		return s.Seats[i], true
	}

	for _, seat := range s.Seats {
		if seat.ID == id {
			return seat, true
		}
	}

	return Seat{}, false
}
