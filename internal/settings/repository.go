package settings

import (
	"context"
	"database/sql"
)

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, s *Settings) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_name, support_email, shipping_charge,
		       free_shipping_above, updated_at
		FROM settings
		ORDER BY id
		LIMIT 1`,
	).Scan(&s.ID, &s.StoreName, &s.SupportEmail, &s.ShippingCharge,
		&s.FreeShippingAbove, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		// A missing row behaves as zero shipping charge and no threshold.
		return &Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Settings) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO settings (id, store_name, support_email, shipping_charge, free_shipping_above)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET store_name = EXCLUDED.store_name,
		              support_email = EXCLUDED.support_email,
		              shipping_charge = EXCLUDED.shipping_charge,
		              free_shipping_above = EXCLUDED.free_shipping_above,
		              updated_at = NOW()
		RETURNING id, updated_at`,
		s.StoreName, s.SupportEmail, s.ShippingCharge, s.FreeShippingAbove,
	).Scan(&s.ID, &s.UpdatedAt)
}
