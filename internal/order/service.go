// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/auth"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/notify"
)

// Authorization policy, one rule per operation:
//
//	PlaceOrder    any authenticated caller, ordering for themselves
//	ListOrders    admins see every order, everyone else only their own
//	UpdateStatus  owner only; other callers get NotFound, admins included
//	DeleteOrder   owner only; other callers get NotFound, admins included
//
// NotFound rather than Forbidden keeps other buyers' order ids private.

var (
	errInvalidOrder = core.InvalidInputError(
		"Product ID and a positive quantity are required.",
	)
	errInvalidStatus = core.InvalidInputError(
		"Invalid status. Allowed values: processed, completed, cancelled.",
	)
	errOrderNotFound = core.NotFoundError("Order not found")
)

type Notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

type BuyerDirectory interface {
	GetByID(ctx context.Context, id int64) (*auth.UserInfo, error)
}

type ServiceConfig struct {
	Store      Store
	Notifier   Notifier
	Buyers     BuyerDirectory
	OwnerEmail string
	Retry      core.RetryPolicy
	Logger     *zap.Logger
	Tracer     trace.Tracer
}

type Service struct {
	store      Store
	notifier   Notifier
	buyers     BuyerDirectory
	ownerEmail string
	retry      core.RetryPolicy
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		store:      cfg.Store,
		notifier:   cfg.Notifier,
		buyers:     cfg.Buyers,
		ownerEmail: cfg.OwnerEmail,
		retry:      cfg.Retry,
		logger:     cfg.Logger,
		tracer:     cfg.Tracer,
	}
}

// PlaceOrder reserves stock for a single product and records the order in
// one transaction, then notifies the buyer and the shop owner. Notification
// failures are logged and never undo the order.
func (s *Service) PlaceOrder(
	ctx context.Context,
	caller *core.Identity,
	req PlaceOrderRequest,
) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.place")
	defer span.End()

	if caller == nil {
		return nil, fmt.Errorf("place order: %w", core.ErrUnauthorized)
	}

	if req.ProductID <= 0 || req.Quantity <= 0 {
		return nil, errInvalidOrder
	}

	span.SetAttributes(
		attribute.Int64("order.product_id", req.ProductID),
		attribute.Int("order.quantity", req.Quantity),
		attribute.Int64("order.user_id", caller.ID),
	)

	// The reservation completes even if the client goes away mid-request.
	workCtx := context.WithoutCancel(ctx)

	var (
		order   *Order
		product *LockedProduct
	)

	err := core.WithRetry(workCtx, s.retry, func(ctx context.Context) error {
		return s.store.WithinTx(ctx, func(repo Repository) error {
			p, err := repo.LockProduct(ctx, req.ProductID)
			if err != nil {
				return err
			}

			if p.Stock < req.Quantity {
				return &core.StockError{
					ProductName: p.Name,
					Requested:   req.Quantity,
					Available:   p.Stock,
				}
			}

			if _, err := repo.AdjustStock(ctx, p.ID, -req.Quantity); err != nil {
				return err
			}

			o := &Order{
				UserID:     caller.ID,
				ProductID:  p.ID,
				Quantity:   req.Quantity,
				Status:     StatusReserved,
				TotalPrice: p.Price.Times(req.Quantity),
			}
			if err := repo.Create(ctx, o); err != nil {
				return err
			}

			order, product = o, p
			return nil
		})
	})
	if err != nil {
		s.recordFailure(span, err)
		if errors.Is(err, core.ErrInsufficientStock) {
			s.logger.Warn("insufficient stock",
				zap.Int64("product_id", req.ProductID),
				zap.Int("requested", req.Quantity),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", caller.ID),
		zap.Int64("product_id", product.ID),
		zap.Int("quantity", order.Quantity),
		zap.String("total", order.TotalPrice.String()),
	)

	s.notifyPlaced(workCtx, caller, order, product)

	return order, nil
}

func (s *Service) notifyPlaced(
	ctx context.Context,
	caller *core.Identity,
	order *Order,
	product *LockedProduct,
) {
	ctx, span := s.tracer.Start(ctx, "order.notify")
	defer span.End()

	if email := s.buyerEmail(ctx, caller); email != "" {
		s.send(ctx, notify.Message{
			To:      email,
			Subject: "Order Confirmation",
			Body: fmt.Sprintf(
				"Your order #%d for %s (Quantity: %d) has been reserved. Total price: $%s. Status: %s.",
				order.ID,
				product.Name,
				order.Quantity,
				order.TotalPrice,
				order.Status,
			),
		}, order.ID)
	}

	if s.ownerEmail != "" {
		s.send(ctx, notify.Message{
			To:      s.ownerEmail,
			Subject: "New Order Placed",
			Body: fmt.Sprintf(
				"New order #%d for %s (Quantity: %d) by %s <%s>. Total price: $%s. Status: %s.",
				order.ID,
				product.Name,
				order.Quantity,
				caller.Username,
				caller.Email,
				order.TotalPrice,
				order.Status,
			),
		}, order.ID)
	}
}

func (s *Service) buyerEmail(ctx context.Context, caller *core.Identity) string {
	if caller.Email != "" {
		return caller.Email
	}

	if s.buyers == nil {
		return ""
	}

	buyer, err := s.buyers.GetByID(ctx, caller.ID)
	if err != nil {
		s.logger.Warn("buyer lookup failed",
			zap.Int64("user_id", caller.ID),
			zap.Error(err),
		)
		return ""
	}

	return buyer.Email
}

func (s *Service) send(ctx context.Context, msg notify.Message, orderID int64) {
	if err := s.notifier.Send(ctx, msg); err != nil {
		core.SetSpanError(ctx, err)
		s.logger.Error("order notification failed",
			zap.Int64("order_id", orderID),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("order notification sent",
		zap.Int64("order_id", orderID),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
}

// ListOrders returns every order to admins and the caller's own orders to
// everyone else.
func (s *Service) ListOrders(
	ctx context.Context,
	caller *core.Identity,
) ([]OrderDetail, error) {
	if caller == nil {
		return nil, fmt.Errorf("list orders: %w", core.ErrUnauthorized)
	}

	if caller.IsAdmin() {
		return s.store.List(ctx, nil)
	}

	return s.store.List(ctx, &caller.ID)
}

// UpdateStatus moves an order owned by the caller to one of the updatable
// statuses. Stock is not touched, even on cancellation.
func (s *Service) UpdateStatus(
	ctx context.Context,
	caller *core.Identity,
	orderID int64,
	status string,
) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.update_status")
	defer span.End()

	if caller == nil {
		return nil, fmt.Errorf("update order: %w", core.ErrUnauthorized)
	}

	order, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		s.recordFailure(span, err)
		return nil, notFoundAsOrder(err)
	}

	if order.UserID != caller.ID {
		return nil, errOrderNotFound
	}

	if !IsUpdatableStatus(status) {
		return nil, errInvalidStatus
	}

	updated, err := s.store.UpdateStatus(ctx, orderID, status)
	if err != nil {
		s.recordFailure(span, err)
		return nil, notFoundAsOrder(err)
	}

	s.logger.Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", status),
	)

	return updated, nil
}

// DeleteOrder removes an order owned by the caller and returns its quantity
// to the product's stock in the same transaction.
func (s *Service) DeleteOrder(
	ctx context.Context,
	caller *core.Identity,
	orderID int64,
) error {
	ctx, span := s.tracer.Start(ctx, "order.delete")
	defer span.End()

	if caller == nil {
		return fmt.Errorf("delete order: %w", core.ErrUnauthorized)
	}

	workCtx := context.WithoutCancel(ctx)

	var restored bool
	err := core.WithRetry(workCtx, s.retry, func(ctx context.Context) error {
		return s.store.WithinTx(ctx, func(repo Repository) error {
			order, err := repo.LockOrder(ctx, orderID)
			if err != nil {
				return err
			}

			if order.UserID != caller.ID {
				return errOrderNotFound
			}

			restored, err = repo.AdjustStock(ctx, order.ProductID, order.Quantity)
			if err != nil {
				return err
			}

			return repo.Delete(ctx, orderID)
		})
	})
	if err != nil {
		s.recordFailure(span, err)
		return notFoundAsOrder(err)
	}

	s.logger.Info("order deleted",
		zap.Int64("order_id", orderID),
		zap.Bool("stock_restored", restored),
	)

	return nil
}

func (s *Service) recordFailure(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func notFoundAsOrder(err error) error {
	if _, ok := core.IsAppError(err); ok {
		return err
	}
	if errors.Is(err, core.ErrNotFound) {
		return errOrderNotFound
	}
	return err
}
