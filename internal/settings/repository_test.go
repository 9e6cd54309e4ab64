package settings

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	cols := []string{"id", "store_name", "support_email", "shipping_charge", "free_shipping_above", "updated_at"}

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM settings`).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(1, "VastraPoint", "support@vastrapoint.in", 49.0, 999.0, time.Now()))

		s, err := repo.Get(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "VastraPoint", s.StoreName)
		assert.Equal(t, 49.0, s.ShippingCharge)
		assert.Equal(t, 999.0, *s.FreeShippingAbove)
	})

	t.Run("MissingRowIsZeroSettings", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM settings`).
			WillReturnRows(sqlmock.NewRows(cols))

		s, err := repo.Get(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 0.0, s.ShippingCharge)
		assert.Nil(t, s.FreeShippingAbove)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	threshold := 999.0
	s := &Settings{
		StoreName:         "VastraPoint",
		SupportEmail:      "support@vastrapoint.in",
		ShippingCharge:    49,
		FreeShippingAbove: &threshold,
	}

	mock.ExpectQuery(`INSERT INTO settings`).
		WithArgs("VastraPoint", "support@vastrapoint.in", 49.0, &threshold).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(1, time.Now()))

	assert.NoError(t, repo.Update(context.Background(), s))
	assert.Equal(t, uint(1), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettings_ShippingFor(t *testing.T) {
	threshold := 999.0
	s := &Settings{ShippingCharge: 49, FreeShippingAbove: &threshold}

	assert.Equal(t, 49.0, s.ShippingFor(500))
	assert.Equal(t, 0.0, s.ShippingFor(999))
	assert.Equal(t, 0.0, s.ShippingFor(1500))

	s.FreeShippingAbove = nil
	assert.Equal(t, 49.0, s.ShippingFor(10000))
}
