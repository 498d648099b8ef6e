package discount

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
SELECT id, name, enabled, auto_add, priority, min_units, max_applications, reward_percent,
       condition_sku_ids, reward_sku_ids, valid_from, valid_to, created_at
FROM multibuy_discounts
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

func (r *postgresRepo) List(ctx context.Context) ([]domain.MultiBuyDiscount, error) {
	return r.query(ctx, selectColumns+`ORDER BY priority, id`)
}

func (r *postgresRepo) ListEnabled(ctx context.Context) ([]domain.MultiBuyDiscount, error) {
	return r.query(ctx, selectColumns+`WHERE enabled ORDER BY priority, id`)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.MultiBuyDiscount, error) {
	d, err := scanDiscount(r.pool.QueryRow(ctx, selectColumns+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("discount repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &d, nil
}

func (r *postgresRepo) Create(ctx context.Context, d domain.MultiBuyDiscount) (*domain.MultiBuyDiscount, error) {
	const q = `
INSERT INTO multibuy_discounts (name, enabled, auto_add, priority, min_units, max_applications, reward_percent,
                                condition_sku_ids, reward_sku_ids, valid_from, valid_to)
VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8::bigint[], '{}'::bigint[]), COALESCE($9::bigint[], '{}'::bigint[]), $10, $11)
RETURNING id, created_at
`
	res := d
	err := r.pool.QueryRow(ctx, q,
		d.Name,
		d.Enabled,
		d.AutoAdd,
		d.Priority,
		d.MinUnits,
		d.MaxApplications,
		d.Percent,
		d.ConditionSKUIDs,
		d.RewardSKUIDs,
		d.ValidFrom,
		d.ValidTo,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("discount repo: create name=%s error=%v", d.Name, err)
		return nil, err
	}
	r.logger.Printf("discount repo: created id=%d name=%s", res.ID, res.Name)
	return &res, nil
}

func (r *postgresRepo) query(ctx context.Context, q string) ([]domain.MultiBuyDiscount, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("discount repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.MultiBuyDiscount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanDiscount(row pgx.Row) (domain.MultiBuyDiscount, error) {
	var d domain.MultiBuyDiscount
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Enabled,
		&d.AutoAdd,
		&d.Priority,
		&d.MinUnits,
		&d.MaxApplications,
		&d.Percent,
		&d.ConditionSKUIDs,
		&d.RewardSKUIDs,
		&d.ValidFrom,
		&d.ValidTo,
		&d.CreatedAt,
	)
	return d, err
}
