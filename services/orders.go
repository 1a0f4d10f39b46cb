package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-shop/models"
	"go-shop/repository"
	"go-shop/utils"
)

// CreateOrderRequest carries everything needed to place an order.
type CreateOrderRequest struct {
	OrderItems     []models.OrderItem `json:"orderItems"`
	FullName       string             `json:"fullName"`
	Address        string             `json:"address"`
	City           primitive.ObjectID `json:"city"`
	Phone          string             `json:"phone"`
	PaymentMethod  primitive.ObjectID `json:"paymentMethod"`
	DeliveryMethod primitive.ObjectID `json:"deliveryMethod"`
	ItemsPrice     float64            `json:"itemsPrice"`
	ShippingPrice  float64            `json:"shippingPrice"`
	TotalPrice     float64            `json:"totalPrice"`
}

// UpdateOrderRequest is the administrative general update.
type UpdateOrderRequest struct {
	OrderItems      []models.OrderItem      `json:"orderItems"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   primitive.ObjectID      `json:"paymentMethod"`
	DeliveryMethod  primitive.ObjectID      `json:"deliveryMethod"`
	ItemsPrice      *float64                `json:"itemsPrice"`
	ShippingPrice   *float64                `json:"shippingPrice"`
	TotalPrice      *float64                `json:"totalPrice"`
}

// UpdateStatusRequest drives the lifecycle endpoint: mark paid, mark
// delivered, or set the status outright.
type UpdateStatusRequest struct {
	Status      *models.OrderStatus `json:"status"`
	IsPaid      bool                `json:"isPaid"`
	IsDelivered bool                `json:"isDelivered"`
}

// OrderService owns the order lifecycle: creation with stock reservation,
// status transitions, cancellation and deletion with reservation reversal.
type OrderService struct {
	orders       repository.OrderRepo
	paymentTypes repository.PaymentTypeRepo
	inventory    *InventoryService
	notifier     Notifier
	log          *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepo,
	paymentTypes repository.PaymentTypeRepo,
	inventory *InventoryService,
	notifier Notifier,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:       orders,
		paymentTypes: paymentTypes,
		inventory:    inventory,
		notifier:     notifier,
		log:          log,
	}
}

// Create reserves stock for every line, then persists the order. All lines
// that cannot be fulfilled are reported together. Reservations already
// committed for other lines are not rolled back when the create fails.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, req CreateOrderRequest) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, utils.ErrInvalid("The order must have at least one item")
	}
	for _, item := range req.OrderItems {
		if item.Amount <= 0 {
			return nil, utils.ErrInvalid("The amount of each order item must be greater than zero")
		}
	}

	outOfStock, err := s.inventory.ReserveItems(ctx, req.OrderItems)
	if err != nil {
		return nil, err
	}
	if len(outOfStock) > 0 {
		ids := make([]string, 0, len(outOfStock))
		for _, id := range outOfStock {
			ids = append(ids, id.Hex())
		}
		return nil, utils.ErrInvalid(fmt.Sprintf("The product with id: %s out of the stock", strings.Join(ids, ",")))
	}

	order := &models.Order{
		OrderItems: req.OrderItems,
		ShippingAddress: models.ShippingAddress{
			FullName: req.FullName,
			Address:  req.Address,
			City:     req.City,
			Phone:    req.Phone,
		},
		PaymentMethod:  req.PaymentMethod,
		DeliveryMethod: req.DeliveryMethod,
		ItemsPrice:     req.ItemsPrice,
		ShippingPrice:  req.ShippingPrice,
		TotalPrice:     req.TotalPrice,
		User:           userID,
		Status:         models.OrderAwaitingDelivery,
	}

	// Pay-later orders skip the payment stage; everything else starts out
	// awaiting payment.
	if !req.PaymentMethod.IsZero() {
		paymentType, err := s.paymentTypes.GetByID(ctx, req.PaymentMethod)
		if err == repository.ErrNotFound {
			return nil, utils.ErrInvalid("The payment method is not existed")
		}
		if err != nil {
			return nil, err
		}
		if paymentType.Type != models.PaymentLater {
			order.Status = models.OrderAwaitingPayment
		}
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, created.User, models.ContextOrder, models.NotifyCreateOrder,
		fmt.Sprintf("Order %s has been placed successfully", created.ID.Hex()), created.ID.Hex())

	return created, nil
}

// GetDetails returns one order.
func (s *OrderService) GetDetails(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, utils.ErrInvalid("The order is not existed")
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetDetailsOfMe returns one order after checking the caller owns it.
func (s *OrderService) GetDetailsOfMe(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.GetDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.User != userID {
		return nil, utils.ErrUnauthorized("You no has permission")
	}
	return order, nil
}

// List returns orders matching the filter with the total count.
func (s *OrderService) List(ctx context.Context, params repository.OrderListParams) ([]models.Order, int64, error) {
	return s.orders.List(ctx, params)
}

// ListOfMe returns the caller's orders.
func (s *OrderService) ListOfMe(ctx context.Context, userID primitive.ObjectID, params repository.OrderListParams) ([]models.Order, int64, error) {
	params.UserID = userID
	return s.orders.List(ctx, params)
}

// Update applies the administrative general update to an order.
func (s *OrderService) Update(ctx context.Context, id primitive.ObjectID, req UpdateOrderRequest) (*models.Order, error) {
	order, err := s.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(req.OrderItems) > 0 {
		order.OrderItems = req.OrderItems
	}
	if req.ShippingAddress != nil {
		order.ShippingAddress = *req.ShippingAddress
	}
	if !req.PaymentMethod.IsZero() {
		order.PaymentMethod = req.PaymentMethod
	}
	if !req.DeliveryMethod.IsZero() {
		order.DeliveryMethod = req.DeliveryMethod
	}
	if req.ItemsPrice != nil {
		order.ItemsPrice = *req.ItemsPrice
	}
	if req.ShippingPrice != nil {
		order.ShippingPrice = *req.ShippingPrice
	}
	if req.TotalPrice != nil {
		order.TotalPrice = *req.TotalPrice
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus performs the lifecycle transitions: mark paid, mark delivered,
// or an administrative status override. Each path enforces its own guard.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, req UpdateStatusRequest) (*models.Order, error) {
	order, err := s.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsPaid {
		if order.IsPaid == models.FlagYes {
			return nil, utils.ErrInvalid("The order has already been paid")
		}
		if order.Status != models.OrderAwaitingPayment {
			return nil, utils.ErrInvalid("The order is not awaiting payment")
		}
		now := time.Now()
		order.IsPaid = models.FlagYes
		order.PaidAt = &now
	}

	if req.IsDelivered {
		if order.IsPaid != models.FlagYes && !req.IsPaid {
			return nil, utils.ErrInvalid("The order has not been paid yet")
		}
		now := time.Now()
		order.IsDelivered = models.FlagYes
		order.DeliveryAt = &now
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, utils.ErrInvalid("The status is not valid")
		}
		if order.Status == models.OrderCompleted || order.Status == models.OrderCancelled {
			return nil, utils.ErrInvalid("The order is in a terminal status")
		}
		order.Status = *req.Status
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	switch {
	case req.IsPaid:
		s.notifier.Dispatch(ctx, order.User, models.ContextOrder, models.NotifyIsPaid,
			fmt.Sprintf("Order %s has been paid successfully", order.ID.Hex()), order.ID.Hex())
	case req.IsDelivered:
		s.notifier.Dispatch(ctx, order.User, models.ContextOrder, models.NotifyIsDelivered,
			fmt.Sprintf("Order %s has been delivered successfully", order.ID.Hex()), order.ID.Hex())
	case req.Status != nil:
		s.notifier.Dispatch(ctx, order.User, models.ContextOrder, statusNotifyTitle(*req.Status),
			fmt.Sprintf("Order %s status has been updated", order.ID.Hex()), order.ID.Hex())
	}

	return order, nil
}

// Cancel cancels an order on behalf of an administrator.
func (s *OrderService) Cancel(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.cancel(ctx, id, primitive.NilObjectID)
}

// CancelOfMe cancels an order on behalf of its owner.
func (s *OrderService) CancelOfMe(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	return s.cancel(ctx, orderID, userID)
}

// cancel enforces the cancellation guards: only unpaid, not-yet-cancelled
// orders may be cancelled. Cancellation never touches stock, so a retried
// cancel can never double-reverse a reservation.
func (s *OrderService) cancel(ctx context.Context, id, owner primitive.ObjectID) (*models.Order, error) {
	order, err := s.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owner.IsZero() && order.User != owner {
		return nil, utils.ErrUnauthorized("You no has permission")
	}
	if order.IsPaid == models.FlagYes {
		return nil, utils.ErrInvalid("Cannot cancel order that has been paid")
	}
	if order.Status == models.OrderCancelled {
		return nil, utils.ErrInvalid("The order has already been cancelled")
	}

	order.Status = models.OrderCancelled
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, order.User, models.ContextOrder, models.NotifyCancelOrder,
		fmt.Sprintf("Order %s has been cancelled successfully", order.ID.Hex()), order.ID.Hex())

	return order, nil
}

// Delete permanently removes an order and reverses the stock reservation of
// every line.
func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.ErrInvalid("The order is not existed")
		}
		return nil, err
	}

	if err := s.inventory.ReleaseItems(ctx, order.OrderItems); err != nil {
		// The order is already gone; the failed compensation is all that is
		// left to report.
		s.log.Error("release stock after order delete",
			zap.String("order", id.Hex()), zap.Error(err))
	}

	return order, nil
}

func statusNotifyTitle(status models.OrderStatus) string {
	switch status {
	case models.OrderAwaitingPayment:
		return models.NotifyWaitPayment
	case models.OrderAwaitingDelivery:
		return models.NotifyWaitDelivery
	case models.OrderCompleted:
		return models.NotifyDoneOrder
	case models.OrderCancelled:
		return models.NotifyCancelOrder
	}
	return models.NotifyWaitPayment
}
