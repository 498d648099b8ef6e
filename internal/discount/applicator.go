// Package discount evaluates multi-buy discounts against a cart and lets
// applicators either price the rewarded units or auto-add missing ones.
package discount

import (
	"context"
	"iter"

	"multibuy-autoadd/internal/domain"
)

// Discount is the part of a multi-buy rule applicators need to see.
type Discount interface {
	AutoAddEnabled() bool
	// MissingProducts yields SKU IDs that would satisfy the rule, best first.
	MissingProducts() iter.Seq[int64]
}

// Applicator receives the outcome of a multi-buy evaluation pass.
type Applicator interface {
	// Reset is called once before a pass starts.
	Reset()
	// ApplyDiscount is called for every chunk of units the discount rewards.
	ApplyDiscount(d Discount, item *domain.CartItem, units int)
	// AcceptsMissedDiscount is offered applications the cart could not satisfy.
	// Returning true marks the miss as handled for this pass.
	AcceptsMissedDiscount(ctx context.Context, d Discount, missedApplications int) (bool, error)
}

// SKURepository loads the catalog data auto-add eligibility is decided on.
type SKURepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SKU, error)
}

// CartItemRepository persists the lines of a stored cart.
type CartItemRepository interface {
	SaveItem(ctx context.Context, item *domain.CartItem) error
	DeleteItem(ctx context.Context, item *domain.CartItem) error
}
