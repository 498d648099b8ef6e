package sku

import (
	"context"

	"multibuy-autoadd/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.SKU, error)
	GetByID(ctx context.Context, id int64) (*domain.SKU, error)
	Upsert(ctx context.Context, sku domain.SKU) (*domain.SKU, error)
	AddOption(ctx context.Context, skuID int64, name string, enabled bool) error
}
