package domain

import "context"

type SeatID string

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatHeld      SeatStatus = "held"
	SeatBooked    SeatStatus = "booked"
)

// SeatCategory is an open set: the pricing policy decides which categories are
// sellable, not the type system.
type SeatCategory string

const (
	SeatCategoryStandard SeatCategory = "standard"
	SeatCategoryGold     SeatCategory = "gold"
	SeatCategoryPremium  SeatCategory = "premium"
)

// Seat describes the fixed geometry of a seat within a show. Its status is not
// stored here: the seat ledger is the single writer of seat status, and exposes
// it through Snapshot.
type Seat struct {
	ID       SeatID
	Row      int
	Col      int
	Category SeatCategory
}

// SeatLedger arbitrates concurrent claims over a show's seats. All-or-nothing:
// a claim either holds every requested seat or none of them.
type SeatLedger interface {
	RegisterShow(show *Show) error
	TryClaim(showID ShowID, seatIDs []SeatID) (*ClaimToken, error)
	Commit(token *ClaimToken) error
	Release(token *ClaimToken) error
	CancelBooked(showID ShowID, seatIDs []SeatID) error
	Snapshot(showID ShowID) (map[SeatID]SeatStatus, error)
}

// ShowCatalog supplies show definitions to the booking service. The seat set of
// a show is fixed once it has been handed to the ledger.
type ShowCatalog interface {
	GetShow(ctx context.Context, showID ShowID) (*Show, error)
}
