package cart

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRepository_AddItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	t.Run("MergesDuplicateLine", func(t *testing.T) {
		// ON CONFLICT bumps the existing line's quantity instead of
		// creating a second row for the same product+size+color.
		mock.ExpectQuery(`INSERT INTO cart_items`).
			WithArgs(uint(7), uint(1), "M", "Blue", 2).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "product_id", "size", "color", "quantity", "created_at", "updated_at",
			}).AddRow(5, 7, 1, "M", "Blue", 4, now, now))

		it, err := repo.AddItem(context.Background(), AddItemParams{
			UserID: 7, ProductID: 1, Size: "M", Color: "Blue", Quantity: 2,
		})

		assert.NoError(t, err)
		assert.Equal(t, uint(5), it.ID)
		assert.Equal(t, 4, it.Quantity)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Updates", func(t *testing.T) {
		mock.ExpectExec(`UPDATE cart_items`).
			WithArgs(3, uint(5), uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateQuantity(context.Background(), 7, 5, 3))
	})

	t.Run("WrongUserOrMissingItem", func(t *testing.T) {
		mock.ExpectExec(`UPDATE cart_items`).
			WithArgs(3, uint(5), uint(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateQuantity(context.Background(), 8, 5, 3)
		assert.Equal(t, ErrCartItemNotFound, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RemoveItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Removes", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1 AND user_id = \$2`).
			WithArgs(uint(5), uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.RemoveItem(context.Background(), 7, 5))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1 AND user_id = \$2`).
			WithArgs(uint(99), uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RemoveItem(context.Background(), 7, 99)
		assert.Equal(t, ErrCartItemNotFound, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM cart_items WHERE user_id = \$1`).
		WithArgs(uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, repo.Clear(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
