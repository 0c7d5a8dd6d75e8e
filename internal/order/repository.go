// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Repository interface {
	LockProduct(ctx context.Context, productID int64) (*LockedProduct, error)
	AdjustStock(ctx context.Context, productID int64, delta int) (bool, error)
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	LockOrder(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Order, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, userID *int64) ([]OrderDetail, error)
}

// Store hands out repositories bound either to the pool or to a single
// transaction.
type Store interface {
	Repository
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

type store struct {
	*repository
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) Store {
	return &store{repository: &repository{db: db}, db: db}
}

func (s *store) WithinTx(
	ctx context.Context,
	fn func(repo Repository) error,
) error {
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(&repository{db: tx})
	})
}

const orderColumns = `id, user_id, product_id, quantity, status, total_price, created_at, updated_at`

func (r *repository) LockProduct(
	ctx context.Context,
	productID int64,
) (*LockedProduct, error) {
	query := `
		SELECT id, name, price, stock
		FROM products
		WHERE id = $1
		FOR UPDATE`

	var p LockedProduct
	err := r.db.GetContext(ctx, &p, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}

	return &p, nil
}

// AdjustStock adds delta to a product's stock and reports whether the
// product still exists.
func (r *repository) AdjustStock(
	ctx context.Context,
	productID int64,
	delta int,
) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, productID, delta)
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) Create(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (user_id, product_id, quantity, status, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + orderColumns

	err := r.db.GetContext(ctx, order, query,
		order.UserID,
		order.ProductID,
		order.Quantity,
		order.Status,
		order.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *repository) LockOrder(ctx context.Context, id int64) (*Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query string, id int64) (*Order, error) {
	var order Order
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &order, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
) (*Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	var order Order
	err := r.db.GetContext(ctx, &order, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return &order, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete order: %w", core.ErrNotFound)
	}

	return nil
}

// List returns orders newest first. A nil userID lists every order.
func (r *repository) List(
	ctx context.Context,
	userID *int64,
) ([]OrderDetail, error) {
	query := `
		SELECT o.id, o.user_id, o.product_id, o.quantity, o.status,
		       o.total_price, o.created_at, o.updated_at,
		       p.name AS product_name, p.price AS product_price,
		       u.username, u.email
		FROM orders o
		JOIN products p ON p.id = o.product_id
		JOIN users u ON u.id = o.user_id`

	args := []any{}
	if userID != nil {
		query += ` WHERE o.user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC`

	orders := []OrderDetail{}
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return orders, nil
}
