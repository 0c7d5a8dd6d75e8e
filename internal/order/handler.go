// AngelaMos | 2026
// handler.go

package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Place)
		r.Get("/", h.List)
		r.Patch("/{orderID}/status", h.UpdateStatus)
		r.Delete("/{orderID}", h.Delete)
	})
}

func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := core.ReadJSON(w, r, &req); err != nil {
		core.JSONError(w, errInvalidOrder)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, errInvalidOrder)
		return
	}

	order, err := h.service.PlaceOrder(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, PlaceOrderResponse{
		Message: "Order placed successfully",
		OrderID: order.ID,
		Order:   order,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(
		r.Context(),
		middleware.GetIdentity(r.Context()),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if orders == nil {
		orders = []OrderDetail{}
	}

	core.OK(w, orders)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "orderID", "order")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := core.ReadJSON(w, r, &req); err != nil {
		core.JSONError(w, errInvalidStatus)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, errInvalidStatus)
		return
	}

	order, err := h.service.UpdateStatus(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		id,
		req.Status,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, order)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "orderID", "order")
	if !ok {
		return
	}

	err := h.service.DeleteOrder(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		id,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Order deleted successfully")
}

// writeError reports a missing product as such; a missing order has already
// been turned into an AppError by the service.
func writeError(w http.ResponseWriter, err error) {
	if _, ok := core.IsAppError(err); ok {
		core.JSONError(w, err)
		return
	}

	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "product")
		return
	}

	core.JSONError(w, err)
}

