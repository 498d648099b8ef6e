package discount

import (
	"context"

	"multibuy-autoadd/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.MultiBuyDiscount, error)
	ListEnabled(ctx context.Context) ([]domain.MultiBuyDiscount, error)
	GetByID(ctx context.Context, id int64) (*domain.MultiBuyDiscount, error)
	Create(ctx context.Context, d domain.MultiBuyDiscount) (*domain.MultiBuyDiscount, error)
}
