package domain

import (
	"slices"
	"testing"
	"time"
)

func TestCartEnsureItemExpandsBundle(t *testing.T) {
	cart := &Cart{ID: 7}
	pack := cart.EnsureItem(SKU{ID: 6, PriceCents: 399, BundleSKUIDs: []int64{4, 5}})

	if len(cart.Items) != 3 {
		t.Fatalf("expected parent and two children, got %d lines", len(cart.Items))
	}
	if pack.CartID != 7 || pack.UnitPriceCents != 399 {
		t.Fatalf("unexpected parent line %+v", pack)
	}
	children := cart.BundleItems(pack)
	if len(children) != 2 || children[0].SKUID != 4 || children[0].UnitPriceCents != 0 {
		t.Fatalf("unexpected children %+v", children)
	}
	if again := cart.EnsureItem(SKU{ID: 6}); again != pack || len(cart.Items) != 3 {
		t.Fatalf("ensure must reuse the existing line")
	}
}

func TestCartFindItemSkipsBundleChildren(t *testing.T) {
	cart := &Cart{}
	cart.EnsureItem(SKU{ID: 6, BundleSKUIDs: []int64{4}})
	if cart.FindItem(4) != nil {
		t.Fatalf("bundle child must not be found as a standalone line")
	}
	standalone := cart.EnsureItem(SKU{ID: 4, PriceCents: 199})
	if cart.FindItem(4) != standalone {
		t.Fatalf("expected standalone line")
	}
}

func TestCartSetItemUnitsMirrorsChildren(t *testing.T) {
	cart := &Cart{}
	pack := cart.EnsureItem(SKU{ID: 6, PriceCents: 399, BundleSKUIDs: []int64{4, 5}})
	cart.SetItemUnits(pack, 1, 2)

	for _, line := range cart.Items {
		if line.Units != 3 || line.AutoAddedUnits != 2 {
			t.Fatalf("line %d: units=%d auto=%d", line.SKUID, line.Units, line.AutoAddedUnits)
		}
	}
	if got := cart.Subtotal(); got != 3*399 {
		t.Fatalf("subtotal must ignore bundle children, got %d", got)
	}
}

func TestCartRemoveEmptyItems(t *testing.T) {
	cart := &Cart{Items: []*CartItem{
		{ID: 1, SKUID: 1, Units: 2},
		{ID: 2, SKUID: 2, Units: 0},
		{ID: 3, SKUID: 3, Units: 1},
	}}
	removed := cart.RemoveEmptyItems()
	if len(removed) != 1 || removed[0].ID != 2 {
		t.Fatalf("unexpected removed %+v", removed)
	}
	if len(cart.Items) != 2 || cart.ItemByID(2) != nil || cart.ItemByID(3) == nil {
		t.Fatalf("unexpected remaining lines")
	}
}

func TestMultiBuyDiscountActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	from, to := now.Add(-time.Hour), now.Add(time.Hour)

	cases := map[string]struct {
		d    MultiBuyDiscount
		want bool
	}{
		"enabled without window": {MultiBuyDiscount{Enabled: true}, true},
		"disabled":               {MultiBuyDiscount{}, false},
		"inside window":          {MultiBuyDiscount{Enabled: true, ValidFrom: &from, ValidTo: &to}, true},
		"not started":            {MultiBuyDiscount{Enabled: true, ValidFrom: &to}, false},
		"end is exclusive":       {MultiBuyDiscount{Enabled: true, ValidTo: &now}, false},
	}
	for name, tc := range cases {
		if got := tc.d.ActiveAt(now); got != tc.want {
			t.Fatalf("%s: got %t want %t", name, got, tc.want)
		}
	}
}

func TestMultiBuyDiscountMissingProductsKeepsOrder(t *testing.T) {
	d := MultiBuyDiscount{RewardSKUIDs: []int64{9, 3, 5}, ConditionSKUIDs: []int64{1}}
	if got := slices.Collect(d.MissingProducts()); !slices.Equal(got, []int64{9, 3, 5}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !d.IsReward(3) || d.IsReward(1) || !d.IsCondition(1) {
		t.Fatalf("unexpected membership")
	}
}
