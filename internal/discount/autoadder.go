package discount

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"

	"multibuy-autoadd/internal/domain"
)

// eligibility is the memoized auto-add verdict for one SKU.
type eligibility interface {
	isEligibility()
}

type eligible struct {
	sellOnlyIfAvailable bool
	availableUnits      int
}

type ineligible struct{}

func (eligible) isEligibility()   {}
func (ineligible) isEligibility() {}

// AutoAdder puts free units of reward SKUs into the cart when a multi-buy
// discount is missing them. One AutoAdder serves a single evaluation pass
// over a single cart.
type AutoAdder struct {
	// Items are the cart lines under evaluation.
	Items []*domain.CartItem

	skus      SKURepository
	cartItems CartItemRepository
	logger    *log.Logger

	available map[int64]eligibility
	toBeAdded map[int64]int
	// lines whose auto-added units were taken back by Reset
	released []*domain.CartItem
}

var _ Applicator = (*AutoAdder)(nil)

func NewAutoAdder(items []*domain.CartItem, skus SKURepository, cartItems CartItemRepository, logger *log.Logger) *AutoAdder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &AutoAdder{
		Items:     items,
		skus:      skus,
		cartItems: cartItems,
		logger:    logger,
		available: make(map[int64]eligibility),
		toBeAdded: make(map[int64]int),
	}
}

// Reset takes previously auto-added units back out of the cart lines.
func (a *AutoAdder) Reset() {
	a.released = a.released[:0]
	for _, item := range a.Items {
		if item.AutoAddedUnits != 0 {
			a.released = append(a.released, item)
		}
		item.Units -= item.AutoAddedUnits
		item.AutoAddedUnits = 0
	}
}

// ApplyDiscount does nothing; the auto adder never changes prices.
func (a *AutoAdder) ApplyDiscount(Discount, *domain.CartItem, int) {}

func (a *AutoAdder) AcceptsMissedDiscount(ctx context.Context, d Discount, missedApplications int) (bool, error) {
	if !d.AutoAddEnabled() {
		return false, nil
	}
	for skuID := range d.MissingProducts() {
		ok, err := a.ProductCanBeAutoAdded(ctx, skuID)
		if err != nil {
			return false, err
		}
		if ok {
			a.toBeAdded[skuID] += missedApplications
			a.logger.Printf("auto adder: sku_id=%d pending=%d", skuID, a.toBeAdded[skuID])
			return true, nil
		}
	}
	return false, nil
}

// ProductCanBeAutoAdded reports whether one more unit of skuID may be added
// on top of what is already pending.
func (a *AutoAdder) ProductCanBeAutoAdded(ctx context.Context, skuID int64) (bool, error) {
	if skuID <= 0 {
		return false, nil
	}
	e, err := a.eligibility(ctx, skuID)
	if err != nil {
		return false, err
	}
	stock, ok := e.(eligible)
	if !ok {
		return false, nil
	}
	if !stock.sellOnlyIfAvailable {
		return true, nil
	}

	pending := a.toBeAdded[skuID]
	inCart := 0
	if item := domain.FindItem(a.Items, skuID); item != nil {
		inCart = item.Units
	}
	return stock.availableUnits-inCart > pending, nil
}

func (a *AutoAdder) eligibility(ctx context.Context, skuID int64) (eligibility, error) {
	if e, ok := a.available[skuID]; ok {
		return e, nil
	}
	var e eligibility = ineligible{}
	sku, err := a.skus.GetByID(ctx, skuID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.logger.Printf("auto adder: sku_id=%d not found", skuID)
	case err != nil:
		return nil, fmt.Errorf("load sku %d: %w", skuID, err)
	case sku.Enabled && !sku.HasEnabledOptions:
		e = eligible{sellOnlyIfAvailable: sku.SellOnlyIfAvailable, availableUnits: sku.AvailableUnits}
	}
	a.available[skuID] = e
	return e, nil
}

// ProductsToBeAutoAdded returns a copy of the pending units per SKU.
func (a *AutoAdder) ProductsToBeAutoAdded() map[int64]int {
	return maps.Clone(a.toBeAdded)
}

// UpdateAutoAddedItemsInShoppingCart writes the pending units into cart and
// drops lines left without units. Lines of a persisted cart are saved or
// deleted through the cart item repository.
func (a *AutoAdder) UpdateAutoAddedItemsInShoppingCart(ctx context.Context, cart *domain.Cart) error {
	persisted := cart.ID != 0
	saved := make(map[*domain.CartItem]bool)
	for _, skuID := range slices.Sorted(maps.Keys(a.toBeAdded)) {
		units := a.toBeAdded[skuID]
		item := cart.FindItem(skuID)
		if item == nil {
			sku, err := a.skus.GetByID(ctx, skuID)
			if errors.Is(err, domain.ErrNotFound) {
				a.logger.Printf("auto adder: cart_id=%d sku_id=%d vanished, skipped", cart.ID, skuID)
				continue
			}
			if err != nil {
				return fmt.Errorf("load sku %d: %w", skuID, err)
			}
			item = cart.EnsureItem(*sku)
		}
		cart.SetItemUnits(item, item.Units-item.AutoAddedUnits, units)
		a.logger.Printf("auto adder: cart_id=%d sku_id=%d auto_added=%d units=%d", cart.ID, skuID, units, item.Units)
		if !persisted {
			continue
		}
		for _, line := range append([]*domain.CartItem{item}, cart.BundleItems(item)...) {
			if err := a.cartItems.SaveItem(ctx, line); err != nil {
				return err
			}
			saved[line] = true
		}
	}

	// Lines that lost their auto-added units but keep manual ones.
	if persisted {
		for _, item := range a.released {
			if saved[item] || item.Units < 1 || item.ID == 0 {
				continue
			}
			if err := a.cartItems.SaveItem(ctx, item); err != nil {
				return err
			}
		}
	}

	for _, item := range cart.RemoveEmptyItems() {
		a.logger.Printf("auto adder: cart_id=%d sku_id=%d removed", cart.ID, item.SKUID)
		if !persisted || item.ID == 0 {
			continue
		}
		if err := a.cartItems.DeleteItem(ctx, item); err != nil {
			return err
		}
	}
	a.Items = cart.Items
	return nil
}
