package product

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRepository_ReserveStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("EnoughStock", func(t *testing.T) {
		mock.ExpectExec(`UPDATE products`).
			WithArgs(3, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReserveStock(context.Background(), 1, 3)
		assert.NoError(t, err)
	})

	t.Run("NotEnoughStock", func(t *testing.T) {
		// The stock >= qty guard means a row with too little stock is
		// simply not matched; no negative stock is ever written.
		mock.ExpectExec(`UPDATE products`).
			WithArgs(5, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReserveStock(context.Background(), 1, 5)
		assert.Equal(t, ErrInsufficientStock, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RestoreStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE products`).
		WithArgs(3, uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.RestoreStock(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	cols := []string{"id", "title", "slug", "description", "category", "price", "offer_price",
		"images", "sizes", "colors", "stock", "sold", "is_active", "created_at", "updated_at"}

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(
				1, "Kurta", "kurta", "Cotton kurta", "ethnic", 500.0, nil,
				"{kurta.jpg}", "{M,L}", "{Blue}",
				10, 2, true, now, now,
			))

		p, err := repo.GetByID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, "Kurta", p.Title)
		assert.Equal(t, 500.0, p.SellingPrice())
		assert.Equal(t, "kurta.jpg", p.MainImage())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.GetByID(context.Background(), 99)
		assert.Equal(t, ErrProductNotFound, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProduct_SellingPrice(t *testing.T) {
	offer := 399.0
	p := &Product{Price: 500, OfferPrice: &offer}
	assert.Equal(t, 399.0, p.SellingPrice())

	p.OfferPrice = nil
	assert.Equal(t, 500.0, p.SellingPrice())

	zero := 0.0
	p.OfferPrice = &zero
	assert.Equal(t, 500.0, p.SellingPrice())
}
