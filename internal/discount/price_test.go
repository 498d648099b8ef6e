package discount

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"multibuy-autoadd/internal/domain"
)

func TestPriceApplicatorAccumulatesSavings(t *testing.T) {
	shirt := &domain.CartItem{SKUID: 1, Units: 3, UnitPriceCents: 1999}
	mug := &domain.CartItem{SKUID: 2, Units: 1, UnitPriceCents: 1299}
	half := &domain.MultiBuyDiscount{ID: 1, Percent: 50}
	free := &domain.MultiBuyDiscount{ID: 2, Percent: 100}

	p := NewPriceApplicator()
	p.ApplyDiscount(half, shirt, 2)
	p.ApplyDiscount(free, mug, 1)
	p.ApplyDiscount(free, shirt, 0)

	assert.Equal(t, int64(1999), p.ForItem(shirt))
	assert.Equal(t, int64(1299), p.ForItem(mug))
	assert.Equal(t, int64(3298), p.Total())

	p.Reset()
	assert.Zero(t, p.Total())
}

func TestPriceApplicatorClampsPercent(t *testing.T) {
	item := &domain.CartItem{SKUID: 1, Units: 1, UnitPriceCents: 1000}
	p := NewPriceApplicator()
	p.ApplyDiscount(&domain.MultiBuyDiscount{Percent: 250}, item, 1)
	p.ApplyDiscount(&domain.MultiBuyDiscount{Percent: -10}, item, 1)
	assert.Equal(t, int64(1000), p.ForItem(item))
}

func TestPriceApplicatorNeverAcceptsMisses(t *testing.T) {
	ok, err := NewPriceApplicator().AcceptsMissedDiscount(context.Background(), &domain.MultiBuyDiscount{AutoAdd: true}, 3)
	assert.NoError(t, err)
	assert.False(t, ok)
}
