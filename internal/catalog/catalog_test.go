package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinex/ticketing/internal/domain"
)

func newShow(t *testing.T, id domain.ShowID) *domain.Show {
	t.Helper()

	start := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	show, err := domain.NewShow(id, "M1", start, start.Add(2*time.Hour), []domain.Seat{
		{ID: "S1", Row: 1, Col: 1, Category: domain.SeatCategoryStandard},
	})
	require.NoError(t, err)

	return show
}

func TestCatalogMovies(t *testing.T) {
	c := New()

	err := c.AddMovie(domain.Movie{Title: "Inception"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, c.AddMovie(domain.Movie{ID: "M1", Title: "Inception", Duration: 148 * time.Minute}))

	movie, err := c.GetMovie("M1")
	require.NoError(t, err)
	assert.Equal(t, "Inception", movie.Title)

	_, err = c.GetMovie("M404")
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}

func TestCatalogTheaters(t *testing.T) {
	c := New()

	err := c.AddTheater(domain.Theater{Name: "Gotham Grand"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, c.AddTheater(domain.Theater{ID: "T1", Name: "Gotham Grand"}))

	theater, err := c.GetTheater("T1")
	require.NoError(t, err)
	assert.Equal(t, "Gotham Grand", theater.Name)

	_, err = c.GetTheater("T404")
	assert.ErrorIs(t, err, domain.ErrTheaterNotFound)
}

func TestCatalogCustomers(t *testing.T) {
	c := New()

	err := c.AddCustomer(domain.Customer{Name: "Alice"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, c.AddCustomer(domain.Customer{ID: "C1", Name: "Alice", ContactNo: "555-0100"}))

	customer, err := c.GetCustomer("C1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", customer.Name)

	_, err = c.GetCustomer("C404")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCatalogShows(t *testing.T) {
	c := New()
	ctx := context.Background()

	assert.ErrorIs(t, c.AddShow(nil), domain.ErrInvalidInput)

	show := newShow(t, "SH1")
	require.NoError(t, c.AddShow(show))

	err := c.AddShow(newShow(t, "SH1"))
	assert.ErrorIs(t, err, domain.ErrShowAlreadyExists)

	got, err := c.GetShow(ctx, "SH1")
	require.NoError(t, err)
	assert.Same(t, show, got)

	_, err = c.GetShow(ctx, "SH404")
	assert.ErrorIs(t, err, domain.ErrShowNotFound)
}
