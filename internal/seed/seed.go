package seed

import (
	"context"
	"fmt"

	"multibuy-autoadd/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type skuWriter interface {
	Upsert(ctx context.Context, sku domain.SKU) (*domain.SKU, error)
}

type discountSeed struct {
	Name       string
	AutoAdd    bool
	Priority   int
	MinUnits   int
	Percent    int
	Conditions []int64
	Rewards    []int64
}

var skus = []domain.SKU{
	{ID: 1, Name: "Demo T-Shirt", PriceCents: 1999, Currency: "USD", Enabled: true},
	{ID: 2, Name: "Demo Mug", PriceCents: 1299, Currency: "USD", Enabled: true, SellOnlyIfAvailable: true, AvailableUnits: 25},
	{ID: 3, Name: "Demo Poster", PriceCents: 999, Currency: "USD", Enabled: true},
	{ID: 4, Name: "Sticker", PriceCents: 199, Currency: "USD", Enabled: true},
	{ID: 5, Name: "Pin", PriceCents: 299, Currency: "USD", Enabled: true},
	{ID: 6, Name: "Sticker & Pin Pack", PriceCents: 399, Currency: "USD", Enabled: true, SellOnlyIfAvailable: true, AvailableUnits: 100, BundleSKUIDs: []int64{4, 5}},
	{ID: 7, Name: "Retired Cap", PriceCents: 1499, Currency: "USD", Enabled: false},
}

var discounts = []discountSeed{
	{Name: "Two shirts, free mug", AutoAdd: true, Priority: 1, MinUnits: 2, Percent: 100, Conditions: []int64{1}, Rewards: []int64{3, 2}},
	{Name: "Any mug, half price pack", AutoAdd: true, Priority: 2, MinUnits: 1, Percent: 50, Conditions: []int64{2}, Rewards: []int64{7, 6}},
}

// Apply inserts demo data for manual testing. It is idempotent.
// The poster carries an enabled size option, so the first discount falls
// through to the mug when auto-adding.
func Apply(ctx context.Context, pool *pgxpool.Pool, repo skuWriter) error {
	for _, s := range skus {
		if _, err := repo.Upsert(ctx, s); err != nil {
			return fmt.Errorf("upsert sku %s: %w", s.Name, err)
		}
	}

	if err := ensureOption(ctx, pool, 3, "size"); err != nil {
		return fmt.Errorf("ensure option: %w", err)
	}

	for _, d := range discounts {
		if err := ensureDiscount(ctx, pool, d); err != nil {
			return fmt.Errorf("ensure discount %s: %w", d.Name, err)
		}
	}
	return nil
}

func ensureOption(ctx context.Context, pool *pgxpool.Pool, skuID int64, name string) error {
	const q = `
INSERT INTO sku_options (sku_id, name, enabled)
SELECT $1, $2, TRUE
WHERE NOT EXISTS (SELECT 1 FROM sku_options WHERE sku_id = $1 AND name = $2)
`
	_, err := pool.Exec(ctx, q, skuID, name)
	return err
}

func ensureDiscount(ctx context.Context, pool *pgxpool.Pool, d discountSeed) error {
	const q = `
INSERT INTO multibuy_discounts (name, enabled, auto_add, priority, min_units, reward_percent, condition_sku_ids, reward_sku_ids)
SELECT $1, TRUE, $2, $3, $4, $5, $6, $7
WHERE NOT EXISTS (SELECT 1 FROM multibuy_discounts WHERE name = $1)
`
	_, err := pool.Exec(ctx, q, d.Name, d.AutoAdd, d.Priority, d.MinUnits, d.Percent, d.Conditions, d.Rewards)
	return err
}
