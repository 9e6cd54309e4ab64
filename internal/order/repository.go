package order

import (
	"context"
	"database/sql"
	"fmt"

	"vastra-be/internal/logger"
	"vastra-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	GetByGatewayOrderID(ctx context.Context, razorpayOrderID string) (*Order, error)
	ListByUser(ctx context.Context, userID uint, page, limit int) ([]*Order, int64, error)

	// SetGatewayOrder stamps the gateway order id onto paymentInfo.
	SetGatewayOrder(ctx context.Context, orderID uint, razorpayOrderID string) error

	// MarkPaid is the single-writer primitive both reconciliation paths
	// issue: it flips the order to paid/confirmed only when it is not
	// already paid, and reports whether this call performed the
	// transition. The losing path observes false and no-ops.
	MarkPaid(ctx context.Context, razorpayOrderID, razorpayPaymentID string) (bool, error)

	// MarkPaymentFailed records a failed payment attempt. Order status is
	// left untouched so the user can retry.
	MarkPaymentFailed(ctx context.Context, razorpayOrderID string) error

	// Cancel flips status to cancelled only from a cancellable state and
	// reports whether the transition happened.
	Cancel(ctx context.Context, orderID uint) (bool, error)

	UpdateStatus(ctx context.Context, orderID uint, status Status, tracking *TrackingInfo) error

	// MarkRefunded sets paymentInfo.status=refunded and status=returned.
	MarkRefunded(ctx context.Context, orderID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	o.OrderNumber = utils.GenerateOrderNumber()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id,
			ship_full_name, ship_phone, ship_address1, ship_address2,
			ship_city, ship_state, ship_pincode, ship_country,
			payment_method, payment_status,
			items_total, shipping_charge, discount, coupon_used, total_amount,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.UserID,
		o.ShippingAddress.FullName, o.ShippingAddress.Phone,
		o.ShippingAddress.AddressLine1, o.ShippingAddress.AddressLine2,
		o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.Pincode, o.ShippingAddress.Country,
		o.PaymentInfo.Method, o.PaymentInfo.Status,
		o.ItemsTotal, o.ShippingCharge, o.Discount, o.CouponUsed, o.TotalAmount,
		o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, title, image, price, size, color, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			it.OrderID, it.ProductID, it.Title, it.Image, it.Price, it.Size, it.Color, it.Quantity,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

const orderColumns = `id, order_number, user_id,
	ship_full_name, ship_phone, ship_address1, ship_address2,
	ship_city, ship_state, ship_pincode, ship_country,
	payment_method, razorpay_order_id, razorpay_payment_id, paid_at, payment_status,
	items_total, shipping_charge, discount, coupon_used, total_amount,
	status, carrier, tracking_number, tracking_url,
	delivered_at, cancelled_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*Order, error) {
	var o Order
	var rzpOrderID, rzpPaymentID sql.NullString
	var address2, carrier, trackingNumber, trackingURL sql.NullString
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Phone,
		&o.ShippingAddress.AddressLine1, &address2,
		&o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.Pincode, &o.ShippingAddress.Country,
		&o.PaymentInfo.Method, &rzpOrderID, &rzpPaymentID,
		&o.PaymentInfo.PaidAt, &o.PaymentInfo.Status,
		&o.ItemsTotal, &o.ShippingCharge, &o.Discount, &o.CouponUsed, &o.TotalAmount,
		&o.Status, &carrier, &trackingNumber, &trackingURL,
		&o.DeliveredAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ShippingAddress.AddressLine2 = address2.String
	o.PaymentInfo.RazorpayOrderID = rzpOrderID.String
	o.PaymentInfo.RazorpayPaymentID = rzpPaymentID.String
	o.TrackingInfo.Carrier = carrier.String
	o.TrackingInfo.TrackingNumber = trackingNumber.String
	o.TrackingInfo.TrackingURL = trackingURL.String
	return &o, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, title, image, price, size, color, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id`,
		o.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Title,
			&it.Image, &it.Price, &it.Size, &it.Color, &it.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByGatewayOrderID(ctx context.Context, razorpayOrderID string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE razorpay_order_id = $1`, razorpayOrderID)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]*Order, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}

	return orders, total, nil
}

func (r *repository) SetGatewayOrder(ctx context.Context, orderID uint, razorpayOrderID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET razorpay_order_id = $1, updated_at = NOW() WHERE id = $2`,
		razorpayOrderID, orderID,
	)
	return err
}

func (r *repository) MarkPaid(ctx context.Context, razorpayOrderID, razorpayPaymentID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = 'paid',
		    razorpay_payment_id = $1,
		    paid_at = NOW(),
		    status = 'confirmed',
		    updated_at = NOW()
		WHERE razorpay_order_id = $2
		  AND payment_status <> 'paid'`,
		razorpayPaymentID, razorpayOrderID,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) MarkPaymentFailed(ctx context.Context, razorpayOrderID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = 'failed', updated_at = NOW()
		WHERE razorpay_order_id = $1
		  AND payment_status <> 'paid'`,
		razorpayOrderID,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to mark payment failed",
			zap.String("razorpay_order_id", razorpayOrderID),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) Cancel(ctx context.Context, orderID uint) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1
		  AND status IN ('pending', 'confirmed')`,
		orderID,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status Status, tracking *TrackingInfo) error {
	var carrier, number, url interface{}
	if tracking != nil {
		carrier, number, url = tracking.Carrier, tracking.TrackingNumber, tracking.TrackingURL
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    carrier = COALESCE($2::text, carrier),
		    tracking_number = COALESCE($3::text, tracking_number),
		    tracking_url = COALESCE($4::text, tracking_url),
		    delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
		    updated_at = NOW()
		WHERE id = $5`,
		status, carrier, number, url, orderID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) MarkRefunded(ctx context.Context, orderID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = 'refunded', status = 'returned', updated_at = NOW()
		WHERE id = $1`,
		orderID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
