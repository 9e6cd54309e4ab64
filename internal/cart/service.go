package cart

import (
	"context"

	"vastra-be/internal/product"
)

type Service interface {
	GetCart(ctx context.Context, userID uint) ([]*Item, error)
	AddItem(ctx context.Context, params AddItemParams) (*Item, error)
	UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uint) error
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) GetCart(ctx context.Context, userID uint) ([]*Item, error) {
	return s.repo.GetItems(ctx, userID)
}

func (s *service) AddItem(ctx context.Context, params AddItemParams) (*Item, error) {
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, product.ErrProductUnavailable
	}
	if p.Stock < params.Quantity {
		return nil, product.ErrInsufficientStock
	}

	return s.repo.AddItem(ctx, params)
}

func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uint) error {
	return s.repo.RemoveItem(ctx, userID, itemID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.repo.Clear(ctx, userID)
}
