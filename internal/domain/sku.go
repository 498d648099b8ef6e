package domain

import "time"

// SKU is a sellable stock keeping unit.
type SKU struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	PriceCents          int64     `json:"priceCents"`
	Currency            string    `json:"currency"`
	Enabled             bool      `json:"enabled"`
	SellOnlyIfAvailable bool      `json:"sellOnlyIfAvailable"`
	AvailableUnits      int       `json:"availableUnits"`
	HasEnabledOptions   bool      `json:"hasEnabledOptions"`
	BundleSKUIDs        []int64   `json:"bundleSkuIds,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

// IsBundle reports whether adding the SKU to a cart expands into child items.
func (s SKU) IsBundle() bool {
	return len(s.BundleSKUIDs) > 0
}
