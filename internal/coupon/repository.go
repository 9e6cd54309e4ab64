package coupon

import (
	"context"
	"database/sql"
)

type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id uint) error

	// IncrementUsage bumps used_count only while the usage limit has not
	// been reached. Returns ErrLimitReached when the guard fails, which
	// closes the read-then-write race on near-limit coupons.
	IncrementUsage(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const couponColumns = `id, code, discount_type, discount_value, min_purchase,
	max_discount, valid_from, valid_until, usage_limit, used_count, is_active,
	created_at, updated_at`

func scanCoupon(row interface{ Scan(...interface{}) error }) (*Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinPurchase,
		&c.MaxDiscount, &c.ValidFrom, &c.ValidUntil, &c.UsageLimit, &c.UsedCount,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code)

	c, err := scanCoupon(row)
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context) ([]*Coupon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *repository) Create(ctx context.Context, c *Coupon) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (code, discount_type, discount_value, min_purchase,
			max_discount, valid_from, valid_until, usage_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, used_count, created_at, updated_at`,
		c.Code, c.DiscountType, c.DiscountValue, c.MinPurchase,
		c.MaxDiscount, c.ValidFrom, c.ValidUntil, c.UsageLimit, c.IsActive,
	).Scan(&c.ID, &c.UsedCount, &c.CreatedAt, &c.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, c *Coupon) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET discount_type = $1, discount_value = $2, min_purchase = $3,
		    max_discount = $4, valid_from = $5, valid_until = $6,
		    usage_limit = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9`,
		c.DiscountType, c.DiscountValue, c.MinPurchase,
		c.MaxDiscount, c.ValidFrom, c.ValidUntil,
		c.UsageLimit, c.IsActive, c.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *repository) IncrementUsage(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND (usage_limit IS NULL OR used_count < usage_limit)`,
		id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLimitReached
	}
	return nil
}
