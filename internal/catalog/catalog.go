// Package catalog is the explicit registry of movies, theaters and shows. It
// replaces ambient global state: one Catalog is constructed at process start
// and handed to its collaborators.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/cinex/ticketing/internal/domain"
)

type Catalog struct {
	mu        sync.RWMutex
	movies    map[string]domain.Movie
	theaters  map[string]domain.Theater
	shows     map[domain.ShowID]*domain.Show
	customers map[string]domain.Customer
}

func New() *Catalog {
	return &Catalog{
		movies:    make(map[string]domain.Movie),
		theaters:  make(map[string]domain.Theater),
		shows:     make(map[domain.ShowID]*domain.Show),
		customers: make(map[string]domain.Customer),
	}
}

func (c *Catalog) AddMovie(movie domain.Movie) error {
	if movie.ID == "" {
		return fmt.Errorf("%w: movie id must not be empty", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.movies[movie.ID] = movie

	return nil
}

func (c *Catalog) GetMovie(id string) (domain.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	movie, ok := c.movies[id]
	if !ok {
		return domain.Movie{}, fmt.Errorf("%w: %s", domain.ErrMovieNotFound, id)
	}

	return movie, nil
}

func (c *Catalog) AddTheater(theater domain.Theater) error {
	if theater.ID == "" {
		return fmt.Errorf("%w: theater id must not be empty", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.theaters[theater.ID] = theater

	return nil
}

func (c *Catalog) GetTheater(id string) (domain.Theater, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	theater, ok := c.theaters[id]
	if !ok {
		return domain.Theater{}, fmt.Errorf("%w: %s", domain.ErrTheaterNotFound, id)
	}

	return theater, nil
}

func (c *Catalog) AddCustomer(customer domain.Customer) error {
	if customer.ID == "" {
		return fmt.Errorf("%w: customer id must not be empty", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.customers[customer.ID] = customer

	return nil
}

func (c *Catalog) GetCustomer(id string) (domain.Customer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	customer, ok := c.customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, id)
	}

	return customer, nil
}

// AddShow registers a show built with domain.NewShow. The seat set is fixed
// from here on.
func (c *Catalog) AddShow(show *domain.Show) error {
	if show == nil {
		return fmt.Errorf("%w: show must not be nil", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.shows[show.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrShowAlreadyExists, show.ID)
	}

	c.shows[show.ID] = show

	return nil
}

// GetShow implements domain.ShowCatalog.
func (c *Catalog) GetShow(_ context.Context, showID domain.ShowID) (*domain.Show, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	show, ok := c.shows[showID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrShowNotFound, showID)
	}

	return show, nil
}
