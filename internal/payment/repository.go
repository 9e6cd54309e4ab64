package payment

import (
	"context"
	"database/sql"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByOrderID(ctx context.Context, orderID uint) (*Payment, error)
	GetByGatewayOrderID(ctx context.Context, razorpayOrderID string) (*Payment, error)

	// MarkCaptured records a successful capture. Re-applying it for the
	// same gateway order id rewrites identical values, so the verify and
	// webhook paths may both call it safely.
	MarkCaptured(ctx context.Context, razorpayOrderID, razorpayPaymentID string, signature, method *string) error

	MarkFailed(ctx context.Context, razorpayOrderID string, errCode, errDesc *string) error
	MarkRefunded(ctx context.Context, razorpayPaymentID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const paymentColumns = `id, order_id, user_id, razorpay_order_id, razorpay_payment_id,
	razorpay_signature, amount, currency, status, method, error_code,
	error_description, created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*Payment, error) {
	var p Payment
	var method sql.NullString
	err := row.Scan(
		&p.ID, &p.OrderID, &p.UserID, &p.RazorpayOrderID, &p.RazorpayPaymentID,
		&p.RazorpaySignature, &p.Amount, &p.Currency, &p.Status, &method,
		&p.ErrorCode, &p.ErrorDescription, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Method = method.String
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	if p.Currency == "" {
		p.Currency = "INR"
	}
	if p.Status == "" {
		p.Status = StatusCreated
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, user_id, razorpay_order_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.OrderID, p.UserID, p.RazorpayOrderID, p.Amount, p.Currency, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) GetByOrderID(ctx context.Context, orderID uint) (*Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE order_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		orderID,
	)

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByGatewayOrderID(ctx context.Context, razorpayOrderID string) (*Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE razorpay_order_id = $1`,
		razorpayOrderID,
	)

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) MarkCaptured(ctx context.Context, razorpayOrderID, razorpayPaymentID string, signature, method *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'captured',
		    razorpay_payment_id = $1,
		    razorpay_signature = COALESCE($2, razorpay_signature),
		    method = COALESCE($3, method),
		    updated_at = NOW()
		WHERE razorpay_order_id = $4`,
		razorpayPaymentID, signature, method, razorpayOrderID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *repository) MarkFailed(ctx context.Context, razorpayOrderID string, errCode, errDesc *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'failed',
		    error_code = $1,
		    error_description = $2,
		    updated_at = NOW()
		WHERE razorpay_order_id = $3
		  AND status <> 'captured'`,
		errCode, errDesc, razorpayOrderID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *repository) MarkRefunded(ctx context.Context, razorpayPaymentID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'refunded', updated_at = NOW()
		WHERE razorpay_payment_id = $1`,
		razorpayPaymentID,
	)
	return err
}
