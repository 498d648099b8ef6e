package domain

import "time"

type Cart struct {
	ID            int64       `json:"id"`
	Currency      string      `json:"currency"`
	SubtotalCents int64       `json:"subtotalCents"`
	DiscountCents int64       `json:"discountCents"`
	TotalCents    int64       `json:"totalCents"`
	CreatedAt     time.Time   `json:"createdAt"`
	Items         []*CartItem `json:"items"`
}

// CartItem is one cart line. Units always includes AutoAddedUnits.
type CartItem struct {
	ID             int64     `json:"id"`
	CartID         int64     `json:"cartId"`
	SKUID          int64     `json:"skuId"`
	Units          int       `json:"units"`
	AutoAddedUnits int       `json:"autoAddedUnits"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	BundleParentID int64     `json:"bundleParentId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	// Parent links a bundle child to its owning line before either is persisted.
	Parent *CartItem `json:"-"`
}

// IsBundleItem reports whether the line is a sub-component of a bundle line.
func (i *CartItem) IsBundleItem() bool {
	return i.Parent != nil || i.BundleParentID != 0
}

// FindItem returns the first line for skuID that is not itself a bundle child.
func FindItem(items []*CartItem, skuID int64) *CartItem {
	for _, item := range items {
		if item.SKUID == skuID && !item.IsBundleItem() {
			return item
		}
	}
	return nil
}

func (c *Cart) FindItem(skuID int64) *CartItem {
	return FindItem(c.Items, skuID)
}

func (c *Cart) ItemByID(id int64) *CartItem {
	for _, item := range c.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// EnsureItem returns the existing line for sku or appends a new empty one,
// expanding bundle SKUs into child lines.
func (c *Cart) EnsureItem(sku SKU) *CartItem {
	if item := c.FindItem(sku.ID); item != nil {
		return item
	}
	item := &CartItem{
		CartID:         c.ID,
		SKUID:          sku.ID,
		UnitPriceCents: sku.PriceCents,
	}
	c.Items = append(c.Items, item)
	for _, childID := range sku.BundleSKUIDs {
		c.Items = append(c.Items, &CartItem{
			CartID: c.ID,
			SKUID:  childID,
			Parent: item,
		})
	}
	return item
}

// BundleItems returns the child lines of parent.
func (c *Cart) BundleItems(parent *CartItem) []*CartItem {
	var out []*CartItem
	for _, item := range c.Items {
		if item == parent {
			continue
		}
		if item.Parent == parent || (parent.ID != 0 && item.BundleParentID == parent.ID) {
			out = append(out, item)
		}
	}
	return out
}

// SetItemUnits sets the manual and auto-added units of a line and mirrors
// them onto its bundle children.
func (c *Cart) SetItemUnits(item *CartItem, manual, autoAdded int) {
	for _, line := range append([]*CartItem{item}, c.BundleItems(item)...) {
		line.Units = manual + autoAdded
		line.AutoAddedUnits = autoAdded
	}
}

// RemoveEmptyItems drops every line with fewer than one unit and returns them.
func (c *Cart) RemoveEmptyItems() []*CartItem {
	var removed []*CartItem
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.Units < 1 {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	for i := len(kept); i < len(c.Items); i++ {
		c.Items[i] = nil
	}
	c.Items = kept
	return removed
}

// Subtotal sums the undiscounted price of all top-level lines.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		if item.IsBundleItem() {
			continue
		}
		total += item.UnitPriceCents * int64(item.Units)
	}
	return total
}
