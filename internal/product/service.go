package product

import (
	"context"
)

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]*Product, int64, error)
	Get(ctx context.Context, id uint) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 12
	}
	return s.repo.List(ctx, opts)
}

func (s *service) Get(ctx context.Context, id uint) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrProductNotFound
	}
	return p, nil
}
