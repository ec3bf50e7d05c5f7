// Package pricing maps seat categories to price multipliers. Adding a
// category is a table update, not a new type.
package pricing

import (
	"fmt"
	"sync"

	"github.com/cinex/ticketing/internal/domain"
	"github.com/shopspring/decimal"
)

type Policy struct {
	mu          sync.RWMutex
	multipliers map[domain.SeatCategory]decimal.Decimal
}

func NewPolicy() *Policy {
	return &Policy{
		multipliers: make(map[domain.SeatCategory]decimal.Decimal),
	}
}

// DefaultPolicy returns a policy seeded with the platform's standard tiers.
func DefaultPolicy() *Policy {
	p := NewPolicy()

	p.multipliers[domain.SeatCategoryStandard] = decimal.NewFromInt(1)
	p.multipliers[domain.SeatCategoryGold] = decimal.NewFromFloat(1.5)
	p.multipliers[domain.SeatCategoryPremium] = decimal.NewFromInt(2)

	return p
}

// Register adds or replaces the multiplier of a category. Multipliers must be
// strictly positive.
func (p *Policy) Register(category domain.SeatCategory, multiplier decimal.Decimal) error {
	if category == "" {
		return fmt.Errorf("%w: category must not be empty", domain.ErrInvalidInput)
	}
	if !multiplier.IsPositive() {
		return fmt.Errorf("%w: multiplier for category %q must be positive", domain.ErrInvalidInput, category)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.multipliers[category] = multiplier

	return nil
}

// Price computes the price of one seat of the given category.
func (p *Policy) Price(basePrice decimal.Decimal, category domain.SeatCategory) (decimal.Decimal, error) {
	if !basePrice.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: base price must be positive", domain.ErrInvalidInput)
	}

	p.mu.RLock()
	multiplier, ok := p.multipliers[category]
	p.mu.RUnlock()

	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}

	return basePrice.Mul(multiplier), nil
}

// Total sums the per-seat prices for a set of categories.
func (p *Policy) Total(basePrice decimal.Decimal, categories []domain.SeatCategory) (decimal.Decimal, error) {
	total := decimal.Zero

	for _, category := range categories {
		price, err := p.Price(basePrice, category)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(price)
	}

	return total, nil
}
