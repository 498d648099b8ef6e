package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"multibuy-autoadd/internal/db"
	"multibuy-autoadd/internal/domain"
	"multibuy-autoadd/internal/migrate"
)

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, "USD")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Currency != "USD" {
		t.Fatalf("unexpected cart %+v", created)
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.ID != created.ID || len(fetched.Items) != 0 {
		t.Fatalf("fetched mismatch %+v", fetched)
	}

	if _, err := repo.GetByID(ctx, created.ID+1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgres_SaveAndDeleteItems(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if _, err := pool.Exec(ctx, `INSERT INTO skus (id, name, price_cents, currency) VALUES (1, 'Set', 900, 'USD'), (2, 'Part', 0, 'USD')`); err != nil {
		t.Fatalf("insert skus: %v", err)
	}

	repo := NewPostgres(pool, nil)
	c, err := repo.Create(ctx, "USD")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	c.EnsureItem(domain.SKU{ID: 1, PriceCents: 900, BundleSKUIDs: []int64{2}})
	parent := c.Items[0]
	c.SetItemUnits(parent, 1, 2)
	for _, item := range c.Items {
		if err := repo.SaveItem(ctx, item); err != nil {
			t.Fatalf("SaveItem: %v", err)
		}
	}

	fetched, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(fetched.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(fetched.Items))
	}
	gotParent := fetched.FindItem(1)
	if gotParent == nil || gotParent.Units != 3 || gotParent.AutoAddedUnits != 2 {
		t.Fatalf("unexpected parent %+v", gotParent)
	}
	children := fetched.BundleItems(gotParent)
	if len(children) != 1 || children[0].Parent != gotParent {
		t.Fatalf("expected linked bundle child, got %+v", children)
	}

	gotParent.Units = 1
	gotParent.AutoAddedUnits = 0
	if err := repo.SaveItem(ctx, gotParent); err != nil {
		t.Fatalf("SaveItem update: %v", err)
	}

	if err := repo.DeleteItem(ctx, gotParent); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := repo.DeleteItem(ctx, gotParent); err != nil {
		t.Fatalf("DeleteItem twice: %v", err)
	}
	fetched, _ = repo.GetByID(ctx, c.ID)
	if len(fetched.Items) != 0 {
		t.Fatalf("expected cascade delete, got %+v", fetched.Items)
	}

	c.SubtotalCents, c.DiscountCents, c.TotalCents = 900, 100, 800
	if err := repo.UpdateTotals(ctx, c); err != nil {
		t.Fatalf("UpdateTotals: %v", err)
	}
	fetched, _ = repo.GetByID(ctx, c.ID)
	if fetched.TotalCents != 800 {
		t.Fatalf("unexpected totals %+v", fetched)
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
