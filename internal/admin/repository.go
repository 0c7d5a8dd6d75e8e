// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type ShopCounts struct {
	Users         int64 `db:"users"          json:"users"`
	Admins        int64 `db:"admins"         json:"admins"`
	Categories    int64 `db:"categories"     json:"categories"`
	Products      int64 `db:"products"       json:"products"`
	OutOfStock    int64 `db:"out_of_stock"   json:"outOfStock"`
	Orders        int64 `db:"orders"         json:"orders"`
	ReservedUnits int64 `db:"reserved_units" json:"reservedUnits"`
}

type CountsRepository interface {
	Counts(ctx context.Context) (*ShopCounts, error)
}

type countsRepository struct {
	db core.DBTX
}

func NewCountsRepository(db core.DBTX) CountsRepository {
	return &countsRepository{db: db}
}

func (r *countsRepository) Counts(ctx context.Context) (*ShopCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM users WHERE role = 'admin') AS admins,
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM products WHERE stock = 0) AS out_of_stock,
			(SELECT COUNT(*) FROM orders) AS orders,
			(SELECT COALESCE(SUM(quantity), 0) FROM orders
			 WHERE status = 'reserved') AS reserved_units`

	var counts ShopCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("shop counts: %w", err)
	}

	return &counts, nil
}
