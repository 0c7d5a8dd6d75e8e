// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const (
	StatusReserved  = "reserved"
	StatusProcessed = "processed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// updatableStatuses are the targets a buyer may move an order to.
var updatableStatuses = map[string]struct{}{
	StatusProcessed: {},
	StatusCompleted: {},
	StatusCancelled: {},
}

func IsUpdatableStatus(status string) bool {
	_, ok := updatableStatuses[status]
	return ok
}

type Order struct {
	ID         int64      `db:"id"          json:"id"`
	UserID     int64      `db:"user_id"     json:"userId"`
	ProductID  int64      `db:"product_id"  json:"productId"`
	Quantity   int        `db:"quantity"    json:"quantity"`
	Status     string     `db:"status"      json:"status"`
	TotalPrice core.Money `db:"total_price" json:"totalPrice"`
	CreatedAt  time.Time  `db:"created_at"  json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at"  json:"updatedAt"`
}

// LockedProduct is the product row read under a row lock while an order is
// placed.
type LockedProduct struct {
	ID    int64      `db:"id"`
	Name  string     `db:"name"`
	Price core.Money `db:"price"`
	Stock int        `db:"stock"`
}

// OrderDetail is an order joined with the product and buyer it refers to.
type OrderDetail struct {
	Order
	ProductName  string     `db:"product_name"  json:"productName"`
	ProductPrice core.Money `db:"product_price" json:"productPrice"`
	Username     string     `db:"username"      json:"username"`
	Email        string     `db:"email"         json:"email"`
}
