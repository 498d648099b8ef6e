package discount

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"multibuy-autoadd/internal/db"
	"multibuy-autoadd/internal/domain"
	"multibuy-autoadd/internal/migrate"
)

func TestPostgres_CreateAndList(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	until := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	created, err := repo.Create(ctx, domain.MultiBuyDiscount{
		Name:            "Buy 2 shirts, get a mug",
		Enabled:         true,
		AutoAdd:         true,
		MinUnits:        2,
		Percent:         100,
		ConditionSKUIDs: []int64{1},
		RewardSKUIDs:    []int64{2, 3},
		ValidTo:         &until,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, domain.MultiBuyDiscount{Name: "off", MinUnits: 1, Percent: 50}); err != nil {
		t.Fatalf("Create disabled: %v", err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.AutoAdd || len(got.RewardSKUIDs) != 2 || got.RewardSKUIDs[1] != 3 || got.ValidTo == nil || !got.ValidTo.Equal(until) {
		t.Fatalf("unexpected discount %+v", got)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %v %d", err, len(all))
	}
	enabled, err := repo.ListEnabled(ctx)
	if err != nil || len(enabled) != 1 {
		t.Fatalf("ListEnabled: %v %d", err, len(enabled))
	}

	if _, err := repo.GetByID(ctx, 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := db.Connect(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_items, carts, sku_options, skus, multibuy_discounts RESTART IDENTITY CASCADE`); err != nil {
		pool.Close()
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}
