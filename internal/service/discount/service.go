package discount

import (
	"context"
	"fmt"
	"strings"

	"multibuy-autoadd/internal/domain"
)

type discountRepo interface {
	List(ctx context.Context) ([]domain.MultiBuyDiscount, error)
	GetByID(ctx context.Context, id int64) (*domain.MultiBuyDiscount, error)
	Create(ctx context.Context, d domain.MultiBuyDiscount) (*domain.MultiBuyDiscount, error)
}

type Service struct {
	repo discountRepo
}

func New(repo discountRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.MultiBuyDiscount, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.MultiBuyDiscount, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, d domain.MultiBuyDiscount) (*domain.MultiBuyDiscount, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := validate(d); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, d)
}

func validate(d domain.MultiBuyDiscount) error {
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: name required", domain.ErrInvalid)
	case d.MinUnits <= 0:
		return fmt.Errorf("%w: minUnits must be positive", domain.ErrInvalid)
	case d.MaxApplications < 0:
		return fmt.Errorf("%w: maxApplications must not be negative", domain.ErrInvalid)
	case d.Percent < 0 || d.Percent > 100:
		return fmt.Errorf("%w: rewardPercent must be between 0 and 100", domain.ErrInvalid)
	case len(d.ConditionSKUIDs) == 0:
		return fmt.Errorf("%w: conditionSkuIds required", domain.ErrInvalid)
	case len(d.RewardSKUIDs) == 0:
		return fmt.Errorf("%w: rewardSkuIds required", domain.ErrInvalid)
	case d.ValidFrom != nil && d.ValidTo != nil && !d.ValidFrom.Before(*d.ValidTo):
		return fmt.Errorf("%w: validFrom must be before validTo", domain.ErrInvalid)
	}
	return nil
}
