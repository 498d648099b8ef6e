package cart

import (
	"context"

	"multibuy-autoadd/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, currency string) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	SaveItem(ctx context.Context, item *domain.CartItem) error
	DeleteItem(ctx context.Context, item *domain.CartItem) error
	UpdateTotals(ctx context.Context, cart *domain.Cart) error
}
