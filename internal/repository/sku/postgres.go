package sku

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"multibuy-autoadd/internal/domain"
)

const selectColumns = `
SELECT s.id, s.name, s.price_cents, s.currency, s.enabled, s.sell_only_if_available, s.available_units,
       EXISTS (SELECT 1 FROM sku_options o WHERE o.sku_id = s.id AND o.enabled) AS has_enabled_options,
       s.bundle_sku_ids, s.created_at
FROM skus s
`

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.SKU, error) {
	rows, err := r.pool.Query(ctx, selectColumns+`ORDER BY s.id`)
	if err != nil {
		r.logger.Printf("sku repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.SKU
	for rows.Next() {
		s, err := scanSKU(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("sku repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("sku repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.SKU, error) {
	s, err := scanSKU(r.pool.QueryRow(ctx, selectColumns+`WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("sku repo: get id=%d not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("sku repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, sku domain.SKU) (*domain.SKU, error) {
	const q = `
INSERT INTO skus (id, name, price_cents, currency, enabled, sell_only_if_available, available_units, bundle_sku_ids)
VALUES (COALESCE(NULLIF($1::bigint, 0), nextval('skus_id_seq')), $2, $3, $4, $5, $6, $7, COALESCE($8::bigint[], '{}'::bigint[]))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    enabled = EXCLUDED.enabled,
    sell_only_if_available = EXCLUDED.sell_only_if_available,
    available_units = EXCLUDED.available_units,
    bundle_sku_ids = EXCLUDED.bundle_sku_ids
RETURNING id, created_at
`
	res := sku
	err := r.pool.QueryRow(ctx, q,
		sku.ID,
		sku.Name,
		sku.PriceCents,
		sku.Currency,
		sku.Enabled,
		sku.SellOnlyIfAvailable,
		sku.AvailableUnits,
		sku.BundleSKUIDs,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("sku repo: upsert name=%s error=%v", sku.Name, err)
		return nil, err
	}
	if sku.ID != 0 {
		// Explicit IDs bypass the sequence; keep it ahead of them.
		if _, err := r.pool.Exec(ctx, `SELECT setval('skus_id_seq', GREATEST((SELECT MAX(id) FROM skus), 1))`); err != nil {
			return nil, err
		}
	}
	r.logger.Printf("sku repo: upserted id=%d name=%s", res.ID, res.Name)
	return &res, nil
}

func (r *postgresRepo) AddOption(ctx context.Context, skuID int64, name string, enabled bool) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO sku_options (sku_id, name, enabled)
VALUES ($1, $2, $3)
`, skuID, name, enabled)
	if err != nil {
		r.logger.Printf("sku repo: add option sku_id=%d error=%v", skuID, err)
	}
	return err
}

func scanSKU(row pgx.Row) (domain.SKU, error) {
	var s domain.SKU
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.PriceCents,
		&s.Currency,
		&s.Enabled,
		&s.SellOnlyIfAvailable,
		&s.AvailableUnits,
		&s.HasEnabledOptions,
		&s.BundleSKUIDs,
		&s.CreatedAt,
	)
	return s, err
}
