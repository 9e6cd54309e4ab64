package cart

import (
	"context"
	"database/sql"

	"vastra-be/internal/product"

	"github.com/lib/pq"
)

type Repository interface {
	GetItems(ctx context.Context, userID uint) ([]*Item, error)
	AddItem(ctx context.Context, params AddItemParams) (*Item, error)
	UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uint) error
	Clear(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItems(ctx context.Context, userID uint) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.size, ci.color, ci.quantity,
		       ci.created_at, ci.updated_at,
		       p.id, p.title, p.slug, p.price, p.offer_price, p.images,
		       p.stock, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var it Item
		var p productRow
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.ProductID, &it.Size, &it.Color, &it.Quantity,
			&it.CreatedAt, &it.UpdatedAt,
			&p.ID, &p.Title, &p.Slug, &p.Price, &p.OfferPrice, pq.Array(&p.Images),
			&p.Stock, &p.IsActive,
		); err != nil {
			return nil, err
		}
		it.Product = p.toProduct()
		items = append(items, &it)
	}

	return items, rows.Err()
}

// productRow is the subset of catalog columns a cart read needs.
type productRow struct {
	ID         uint
	Title      string
	Slug       string
	Price      float64
	OfferPrice *float64
	Images     []string
	Stock      int
	IsActive   bool
}

func (p *productRow) toProduct() *product.Product {
	return &product.Product{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Price:      p.Price,
		OfferPrice: p.OfferPrice,
		Images:     p.Images,
		Stock:      p.Stock,
		IsActive:   p.IsActive,
	}
}

func (r *repository) AddItem(ctx context.Context, params AddItemParams) (*Item, error) {
	// Same product+size+color merges into the existing line.
	var it Item
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, size, color, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id, size, color)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              updated_at = NOW()
		RETURNING id, user_id, product_id, size, color, quantity, created_at, updated_at`,
		params.UserID, params.ProductID, params.Size, params.Color, params.Quantity,
	).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Size, &it.Color, &it.Quantity,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3`,
		quantity, itemID, userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) RemoveItem(ctx context.Context, userID, itemID uint) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
