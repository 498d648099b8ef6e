package sku

import (
	"context"

	"multibuy-autoadd/internal/domain"
	skurepo "multibuy-autoadd/internal/repository/sku"
)

type Service struct {
	repo skurepo.Repository
}

func New(repo skurepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.SKU, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.SKU, error) {
	return s.repo.GetByID(ctx, id)
}
