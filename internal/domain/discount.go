package domain

import (
	"iter"
	"slices"
	"time"
)

// MultiBuyDiscount grants RewardPercent off one reward SKU unit for every
// MinUnits units of condition SKUs in the cart.
type MultiBuyDiscount struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Enabled         bool       `json:"enabled"`
	AutoAdd         bool       `json:"autoAdd"`
	Priority        int        `json:"priority"`
	MinUnits        int        `json:"minUnits"`
	MaxApplications int        `json:"maxApplications,omitempty"`
	Percent         int        `json:"rewardPercent"`
	ConditionSKUIDs []int64    `json:"conditionSkuIds"`
	RewardSKUIDs    []int64    `json:"rewardSkuIds"`
	ValidFrom       *time.Time `json:"validFrom,omitempty"`
	ValidTo         *time.Time `json:"validTo,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (d *MultiBuyDiscount) AutoAddEnabled() bool {
	return d.AutoAdd
}

// MissingProducts yields the reward SKUs in priority order.
func (d *MultiBuyDiscount) MissingProducts() iter.Seq[int64] {
	return slices.Values(d.RewardSKUIDs)
}

func (d *MultiBuyDiscount) RewardPercent() int {
	return d.Percent
}

// ActiveAt reports whether the discount is enabled and inside its validity window.
func (d *MultiBuyDiscount) ActiveAt(t time.Time) bool {
	if !d.Enabled {
		return false
	}
	if d.ValidFrom != nil && t.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidTo != nil && !t.Before(*d.ValidTo) {
		return false
	}
	return true
}

func (d *MultiBuyDiscount) IsCondition(skuID int64) bool {
	return slices.Contains(d.ConditionSKUIDs, skuID)
}

func (d *MultiBuyDiscount) IsReward(skuID int64) bool {
	return slices.Contains(d.RewardSKUIDs, skuID)
}
