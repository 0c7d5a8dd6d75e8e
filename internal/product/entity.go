// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type CategorySummary struct {
	ID   int64  `db:"id"   json:"id"`
	Name string `db:"name" json:"name"`
}

type Product struct {
	ID          int64           `db:"id"          json:"id"`
	Name        string          `db:"name"        json:"name"`
	Description *string         `db:"description" json:"description"`
	Price       core.Money      `db:"price"       json:"price"`
	Stock       int             `db:"stock"       json:"stock"`
	ImageURL    *string         `db:"image_url"   json:"imageUrl"`
	CategoryID  int64           `db:"category_id" json:"categoryId"`
	CreatedAt   time.Time       `db:"created_at"  json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at"  json:"updatedAt"`
	Category    CategorySummary `db:"category"    json:"category"`
}
