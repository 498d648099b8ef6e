package discount

import (
	"context"

	"multibuy-autoadd/internal/domain"
)

type percentDiscount interface {
	RewardPercent() int
}

// PriceApplicator accumulates the savings granted to rewarded units.
type PriceApplicator struct {
	savings map[*domain.CartItem]int64
}

var _ Applicator = (*PriceApplicator)(nil)

func NewPriceApplicator() *PriceApplicator {
	return &PriceApplicator{savings: make(map[*domain.CartItem]int64)}
}

func (p *PriceApplicator) Reset() {
	clear(p.savings)
}

func (p *PriceApplicator) ApplyDiscount(d Discount, item *domain.CartItem, units int) {
	pd, ok := d.(percentDiscount)
	if !ok || units <= 0 {
		return
	}
	percent := min(max(pd.RewardPercent(), 0), 100)
	p.savings[item] += item.UnitPriceCents * int64(units) * int64(percent) / 100
}

// AcceptsMissedDiscount always declines; prices can only be cut on units
// already in the cart.
func (p *PriceApplicator) AcceptsMissedDiscount(context.Context, Discount, int) (bool, error) {
	return false, nil
}

func (p *PriceApplicator) ForItem(item *domain.CartItem) int64 {
	return p.savings[item]
}

func (p *PriceApplicator) Total() int64 {
	var total int64
	for _, s := range p.savings {
		total += s
	}
	return total
}
