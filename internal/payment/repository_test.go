package payment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(uint(42), uint(7), "order_rzp1", 1499.50, "INR", StatusCreated).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(1, now, now))

	p := &Payment{
		OrderID:         42,
		UserID:          7,
		RazorpayOrderID: "order_rzp1",
		Amount:          1499.50,
	}
	err = repo.Create(context.Background(), p)

	assert.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)
	assert.Equal(t, "INR", p.Currency)
	assert.Equal(t, StatusCreated, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByGatewayOrderID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	cols := []string{"id", "order_id", "user_id", "razorpay_order_id", "razorpay_payment_id",
		"razorpay_signature", "amount", "currency", "status", "method", "error_code",
		"error_description", "created_at", "updated_at"}

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE razorpay_order_id = \$1`).
			WithArgs("order_rzp1").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(1, 42, 7, "order_rzp1", "pay_abc", "sig", 1499.50, "INR", "captured", "upi", nil, nil, now, now))

		p, err := repo.GetByGatewayOrderID(context.Background(), "order_rzp1")
		assert.NoError(t, err)
		assert.Equal(t, StatusCaptured, p.Status)
		assert.Equal(t, "upi", p.Method)
		assert.Equal(t, "pay_abc", *p.RazorpayPaymentID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE razorpay_order_id = \$1`).
			WithArgs("order_missing").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.GetByGatewayOrderID(context.Background(), "order_missing")
		assert.Equal(t, ErrPaymentNotFound, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkCaptured(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	sig := "sig"

	t.Run("Updates", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payments`).
			WithArgs("pay_abc", &sig, nil, "order_rzp1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkCaptured(context.Background(), "order_rzp1", "pay_abc", &sig, nil)
		assert.NoError(t, err)
	})

	t.Run("UnknownGatewayOrder", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payments`).
			WithArgs("pay_abc", &sig, nil, "order_missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkCaptured(context.Background(), "order_missing", "pay_abc", &sig, nil)
		assert.Equal(t, ErrPaymentNotFound, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	code := "BAD_REQUEST_ERROR"
	desc := "Payment declined by bank"

	t.Run("Updates", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payments`).
			WithArgs(&code, &desc, "order_rzp1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkFailed(context.Background(), "order_rzp1", &code, &desc)
		assert.NoError(t, err)
	})

	t.Run("AlreadyCaptured_Untouched", func(t *testing.T) {
		// The guard keeps a captured payment from being downgraded by a
		// late failure event.
		mock.ExpectExec(`UPDATE payments`).
			WithArgs(&code, &desc, "order_rzp1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkFailed(context.Background(), "order_rzp1", &code, &desc)
		assert.Equal(t, ErrPaymentNotFound, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkRefunded(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE payments`).
		WithArgs("pay_abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.MarkRefunded(context.Background(), "pay_abc")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
