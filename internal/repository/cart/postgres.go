package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"multibuy-autoadd/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, currency string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (currency)
VALUES ($1)
RETURNING id, currency, subtotal_cents, discount_cents, total_cents, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, currency).Scan(
		&cart.ID,
		&cart.Currency,
		&cart.SubtotalCents,
		&cart.DiscountCents,
		&cart.TotalCents,
		&cart.CreatedAt,
	); err != nil {
		r.logger.Printf("cart repo: create error=%v", err)
		return nil, err
	}
	r.logger.Printf("cart repo: created id=%d", cart.ID)
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	const cartQuery = `
SELECT id, currency, subtotal_cents, discount_cents, total_cents, created_at
FROM carts
WHERE id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, id).Scan(
		&cart.ID,
		&cart.Currency,
		&cart.SubtotalCents,
		&cart.DiscountCents,
		&cart.TotalCents,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT id, cart_id, sku_id, units, auto_added_units, unit_price_cents, COALESCE(bundle_parent_id, 0), created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*domain.CartItem)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.SKUID,
			&item.Units,
			&item.AutoAddedUnits,
			&item.UnitPriceCents,
			&item.BundleParentID,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, &item)
		byID[item.ID] = &item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, item := range cart.Items {
		if item.BundleParentID != 0 {
			item.Parent = byID[item.BundleParentID]
		}
	}

	return &cart, nil
}

// SaveItem inserts a new line or updates the units of an existing one.
func (r *postgresRepo) SaveItem(ctx context.Context, item *domain.CartItem) error {
	if item.Parent != nil {
		item.BundleParentID = item.Parent.ID
	}
	if item.ID == 0 {
		const q = `
INSERT INTO cart_items (cart_id, sku_id, units, auto_added_units, unit_price_cents, bundle_parent_id)
VALUES ($1, $2, $3, $4, $5, NULLIF($6::bigint, 0))
RETURNING id, created_at
`
		if err := r.pool.QueryRow(ctx, q,
			item.CartID,
			item.SKUID,
			item.Units,
			item.AutoAddedUnits,
			item.UnitPriceCents,
			item.BundleParentID,
		).Scan(&item.ID, &item.CreatedAt); err != nil {
			r.logger.Printf("cart repo: insert item cart_id=%d sku_id=%d error=%v", item.CartID, item.SKUID, err)
			return err
		}
		return nil
	}

	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET units = $1, auto_added_units = $2, unit_price_cents = $3
WHERE id = $4 AND cart_id = $5
`, item.Units, item.AutoAddedUnits, item.UnitPriceCents, item.ID, item.CartID)
	if err != nil {
		r.logger.Printf("cart repo: update item id=%d error=%v", item.ID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem removes a line; bundle children go with it. Deleting a line
// that is already gone is not an error.
func (r *postgresRepo) DeleteItem(ctx context.Context, item *domain.CartItem) error {
	if _, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`, item.ID, item.CartID); err != nil {
		r.logger.Printf("cart repo: delete item id=%d error=%v", item.ID, err)
		return err
	}
	return nil
}

func (r *postgresRepo) UpdateTotals(ctx context.Context, cart *domain.Cart) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE carts
SET subtotal_cents = $1, discount_cents = $2, total_cents = $3
WHERE id = $4
`, cart.SubtotalCents, cart.DiscountCents, cart.TotalCents, cart.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
