package cart

import (
	"context"
	"testing"

	"vastra-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetItems(ctx context.Context, userID uint) ([]*Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *MockRepository) AddItem(ctx context.Context, params AddItemParams) (*Item, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Error(0)
}

func (m *MockRepository) RemoveItem(ctx context.Context, userID, itemID uint) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockRepository) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, opts product.ListOptions) ([]*product.Product, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*product.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) ReserveStock(ctx context.Context, id uint, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id uint, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	params := AddItemParams{UserID: 7, ProductID: 1, Size: "M", Color: "Blue", Quantity: 2}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, uint(1)).Return(&product.Product{ID: 1, Stock: 10, IsActive: true}, nil)
		repo.On("AddItem", ctx, params).Return(&Item{ID: 5, ProductID: 1, Quantity: 2}, nil)

		item, err := svc.AddItem(ctx, params)

		assert.NoError(t, err)
		assert.Equal(t, uint(5), item.ID)
		repo.AssertExpectations(t)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		p := params
		p.Quantity = 0
		_, err := svc.AddItem(ctx, p)
		assert.Equal(t, ErrInvalidQuantity, err)
	})

	t.Run("InactiveProduct", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, uint(1)).Return(&product.Product{ID: 1, Stock: 10, IsActive: false}, nil)

		_, err := svc.AddItem(ctx, params)
		assert.Equal(t, product.ErrProductUnavailable, err)
		repo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
	})

	t.Run("NotEnoughStock", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, uint(1)).Return(&product.Product{ID: 1, Stock: 1, IsActive: true}, nil)

		_, err := svc.AddItem(ctx, params)
		assert.Equal(t, product.ErrInsufficientStock, err)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, uint(1)).Return(nil, product.ErrProductNotFound)

		_, err := svc.AddItem(ctx, params)
		assert.Equal(t, product.ErrProductNotFound, err)
	})
}

func TestService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		repo.On("UpdateQuantity", ctx, uint(7), uint(5), 3).Return(nil)

		assert.NoError(t, svc.UpdateQuantity(ctx, 7, 5, 3))
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		err := svc.UpdateQuantity(ctx, 7, 5, 0)
		assert.Equal(t, ErrInvalidQuantity, err)
	})

	t.Run("ItemNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		repo.On("UpdateQuantity", ctx, uint(7), uint(99), 3).Return(ErrCartItemNotFound)

		err := svc.UpdateQuantity(ctx, 7, 99, 3)
		assert.Equal(t, ErrCartItemNotFound, err)
	})
}
