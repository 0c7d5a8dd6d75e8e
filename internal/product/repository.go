// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Repository interface {
	List(ctx context.Context, params ListParams) ([]Product, int, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, product *Product) error
	// Update writes the product. Stock is only written when stock is non-nil,
	// so concurrent order reservations are never overwritten.
	Update(ctx context.Context, product *Product, stock *int) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectProduct = `
	SELECT p.id, p.name, p.description, p.price, p.stock, p.image_url,
	       p.category_id, p.created_at, p.updated_at,
	       c.id AS "category.id", c.name AS "category.name"
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	params.Normalize()

	where := ""
	args := []any{}
	if params.CategoryID != nil {
		where = " WHERE p.category_id = $1"
		args = append(args, *params.CategoryID)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products p` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(
		"%s%s ORDER BY p.id LIMIT $%d OFFSET $%d",
		selectProduct,
		where,
		len(args)+1,
		len(args)+2,
	)
	args = append(args, params.Limit, params.Offset())

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := r.db.GetContext(ctx, &product, selectProduct+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

func (r *repository) Create(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products (name, description, price, stock, image_url, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.CategoryID,
	)
	if err := row.Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return classifyWriteError("create product", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, product *Product, stock *int) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4,
		    stock = COALESCE($5::integer, stock),
		    image_url = $6, category_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING stock, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		stock,
		product.ImageURL,
		product.CategoryID,
	).Scan(&product.Stock, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return classifyWriteError("update product", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

// classifyWriteError turns a reference to a missing category into bad input.
func classifyWriteError(op string, err error) error {
	if core.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: unknown category: %w", op, core.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}
