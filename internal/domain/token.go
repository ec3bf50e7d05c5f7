package domain

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ClaimToken is a single-use capability proving its holder currently holds a
// specific seat set of a show. Commit and Release each consume the token;
// a consumed token can never transition a seat again.
type ClaimToken struct {
	id       string
	showID   ShowID
	seatIDs  []SeatID
	consumed atomic.Bool
}

func NewClaimToken(showID ShowID, seatIDs []SeatID) *ClaimToken {
	ids := make([]SeatID, len(seatIDs))
	copy(ids, seatIDs)

	return &ClaimToken{
		id:      uuid.New().String(),
		showID:  showID,
		seatIDs: ids,
	}
}

func (t *ClaimToken) ID() string { return t.id }

func (t *ClaimToken) ShowID() ShowID { return t.showID }

// SeatIDs returns a copy of the seat set the token refers to.
func (t *ClaimToken) SeatIDs() []SeatID {
	ids := make([]SeatID, len(t.seatIDs))
	copy(ids, t.seatIDs)
	return ids
}

// Consume marks the token as spent. It reports whether the caller won the
// consumption; exactly one Consume ever returns true.
func (t *ClaimToken) Consume() bool {
	return t.consumed.CompareAndSwap(false, true)
}

func (t *ClaimToken) Consumed() bool {
	return t.consumed.Load()
}
