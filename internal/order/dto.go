// AngelaMos | 2026
// dto.go

package order

type PlaceOrderRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"  validate:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type PlaceOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
	Order   *Order `json:"order"`
}
