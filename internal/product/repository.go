package product

import (
	"context"
	"database/sql"
	"fmt"

	"vastra-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]*Product, int64, error)
	GetByID(ctx context.Context, id uint) (*Product, error)

	// ReserveStock atomically decrements stock and increments sold, but only
	// when enough stock remains. Returns ErrInsufficientStock when the guard
	// fails, so two concurrent orders can never both take the last unit.
	ReserveStock(ctx context.Context, id uint, qty int) error

	// RestoreStock is the exact inverse of ReserveStock.
	RestoreStock(ctx context.Context, id uint, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, title, slug, description, category, price, offer_price,
	images, sizes, colors, stock, sold, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Category,
		&p.Price, &p.OfferPrice,
		pq.Array(&p.Images), pq.Array(&p.Sizes), pq.Array(&p.Colors),
		&p.Stock, &p.Sold, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, int64, error) {
	where := `WHERE is_active = TRUE`
	args := []interface{}{}

	if opts.Category != "" {
		args = append(args, opts.Category)
		where += ` AND category = $1`
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		if opts.Category != "" {
			where += ` AND title ILIKE $2`
		} else {
			where += ` AND title ILIKE $1`
		}
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (opts.Page - 1) * opts.Limit
	query := fmt.Sprintf(
		`SELECT %s FROM products %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		productColumns, where, opts.Limit, offset,
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) ReserveStock(ctx context.Context, id uint, qty int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET stock = stock - $1, sold = sold + $1, updated_at = NOW()
		 WHERE id = $2 AND stock >= $1`,
		qty, id,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *repository) RestoreStock(ctx context.Context, id uint, qty int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET stock = stock + $1, sold = sold - $1, updated_at = NOW()
		 WHERE id = $2`,
		qty, id,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to restore stock",
			zap.Uint("product_id", id),
			zap.Int("quantity", qty),
			zap.Error(err),
		)
	}
	return err
}
