package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShow(t *testing.T) {
	start := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	seats := []Seat{
		{ID: "S1", Row: 1, Col: 1, Category: SeatCategoryGold},
		{ID: "S2", Row: 1, Col: 2, Category: SeatCategoryPremium},
	}

	tests := []struct {
		name    string
		id      ShowID
		start   time.Time
		end     time.Time
		seats   []Seat
		wantErr bool
	}{
		{
			name:  "valid show",
			id:    "SH1",
			start: start,
			end:   end,
			seats: seats,
		},
		{
			name:    "empty show id",
			id:      "",
			start:   start,
			end:     end,
			seats:   seats,
			wantErr: true,
		},
		{
			name:    "end before start",
			id:      "SH1",
			start:   end,
			end:     start,
			seats:   seats,
			wantErr: true,
		},
		{
			name:    "end equals start",
			id:      "SH1",
			start:   start,
			end:     start,
			seats:   seats,
			wantErr: true,
		},
		{
			name:    "no seats",
			id:      "SH1",
			start:   start,
			end:     end,
			seats:   nil,
			wantErr: true,
		},
		{
			name:    "empty seat id",
			id:      "SH1",
			start:   start,
			end:     end,
			seats:   []Seat{{ID: "", Row: 1, Col: 1}},
			wantErr: true,
		},
		{
			name:  "duplicate seat ids",
			id:    "SH1",
			start: start,
			end:   end,
			seats: []Seat{
				{ID: "S1", Row: 1, Col: 1},
				{ID: "S1", Row: 1, Col: 2},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			show, err := NewShow(tt.id, "M1", tt.start, tt.end, tt.seats)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Nil(t, show)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, show.ID)
		})
	}
}

func TestShowSeatLookup(t *testing.T) {
	start := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	show, err := NewShow("SH1", "M1", start, start.Add(time.Hour), []Seat{
		{ID: "S1", Row: 1, Col: 1, Category: SeatCategoryGold},
		{ID: "S2", Row: 1, Col: 2, Category: SeatCategoryPremium},
	})
	require.NoError(t, err)

	seat, ok := show.Seat("S2")
	require.True(t, ok)
	assert.Equal(t, SeatCategoryPremium, seat.Category)

	_, ok = show.Seat("S9")
	assert.False(t, ok)
}

func TestClaimTokenIsSingleUse(t *testing.T) {
	token := NewClaimToken("SH1", []SeatID{"S1", "S2"})

	assert.NotEmpty(t, token.ID())
	assert.Equal(t, ShowID("SH1"), token.ShowID())
	assert.False(t, token.Consumed())

	// mutating the returned slice must not affect the token
	ids := token.SeatIDs()
	ids[0] = "S9"
	assert.Equal(t, []SeatID{"S1", "S2"}, token.SeatIDs())

	assert.True(t, token.Consume())
	assert.False(t, token.Consume())
	assert.True(t, token.Consumed())
}
