package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-shop/models"
	"go-shop/repository"
	"go-shop/utils"
)

func newOrderService(orders *orderRepoMock, paymentTypes *paymentTypeRepoMock, products *memProductRepo, notifier *notifierMock) *OrderService {
	log := zap.NewNop()
	return NewOrderService(orders, paymentTypes, NewInventoryService(products, log), notifier, log)
}

func assertInvalid(t *testing.T, err error, message string) {
	t.Helper()
	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, utils.TypeInvalid, apiErr.Type)
	if message != "" {
		assert.Equal(t, message, apiErr.Message)
	}
}

func TestCreateOrderReservesStock(t *testing.T) {
	productID := primitive.NewObjectID()
	products := newMemProductRepo(&models.Product{ID: productID, CountInStock: 10})
	notifier := &notifierMock{}
	orders := &orderRepoMock{
		CreateFn: func(_ context.Context, order *models.Order) (*models.Order, error) {
			order.ID = primitive.NewObjectID()
			return order, nil
		},
	}
	paymentTypes := &paymentTypeRepoMock{
		GetByIDFn: func(_ context.Context, id primitive.ObjectID) (*models.PaymentType, error) {
			return &models.PaymentType{ID: id, Type: models.PaymentVNPay}, nil
		},
	}
	svc := newOrderService(orders, paymentTypes, products, notifier)

	userID := primitive.NewObjectID()
	order, err := svc.Create(context.Background(), userID, CreateOrderRequest{
		OrderItems:    []models.OrderItem{{Product: productID, Amount: 2, Price: 50}},
		PaymentMethod: primitive.NewObjectID(),
		TotalPrice:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderAwaitingPayment, order.Status)
	assert.Equal(t, userID, order.User)

	product, err := products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), product.CountInStock)
	assert.Equal(t, []string{models.NotifyCreateOrder}, notifier.titles())
}

func TestCreateOrderPayLaterStartsAwaitingDelivery(t *testing.T) {
	productID := primitive.NewObjectID()
	products := newMemProductRepo(&models.Product{ID: productID, CountInStock: 5})
	orders := &orderRepoMock{
		CreateFn: func(_ context.Context, order *models.Order) (*models.Order, error) {
			order.ID = primitive.NewObjectID()
			return order, nil
		},
	}
	paymentTypes := &paymentTypeRepoMock{
		GetByIDFn: func(_ context.Context, id primitive.ObjectID) (*models.PaymentType, error) {
			return &models.PaymentType{ID: id, Type: models.PaymentLater}, nil
		},
	}
	svc := newOrderService(orders, paymentTypes, products, &notifierMock{})

	order, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateOrderRequest{
		OrderItems:    []models.OrderItem{{Product: productID, Amount: 1}},
		PaymentMethod: primitive.NewObjectID(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderAwaitingDelivery, order.Status)
}

func TestCreateOrderAggregatesOutOfStock(t *testing.T) {
	inStock := primitive.NewObjectID()
	shortA := primitive.NewObjectID()
	shortB := primitive.NewObjectID()
	products := newMemProductRepo(
		&models.Product{ID: inStock, CountInStock: 10},
		&models.Product{ID: shortA, CountInStock: 0},
		&models.Product{ID: shortB, CountInStock: 1},
	)
	notifier := &notifierMock{}
	svc := newOrderService(&orderRepoMock{}, &paymentTypeRepoMock{}, products, notifier)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateOrderRequest{
		OrderItems: []models.OrderItem{
			{Product: shortA, Amount: 1},
			{Product: inStock, Amount: 2},
			{Product: shortB, Amount: 5},
		},
	})
	assertInvalid(t, err, "The product with id: "+shortA.Hex()+","+shortB.Hex()+" out of the stock")
	assert.Empty(t, notifier.titles())
}

func TestCreateOrderRejectsEmptyAndNonPositiveLines(t *testing.T) {
	svc := newOrderService(&orderRepoMock{}, &paymentTypeRepoMock{}, newMemProductRepo(), &notifierMock{})

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateOrderRequest{})
	assertInvalid(t, err, "The order must have at least one item")

	_, err = svc.Create(context.Background(), primitive.NewObjectID(), CreateOrderRequest{
		OrderItems: []models.OrderItem{{Product: primitive.NewObjectID(), Amount: 0}},
	})
	assertInvalid(t, err, "The amount of each order item must be greater than zero")
}

func TestGetDetailsOfMeChecksOwnership(t *testing.T) {
	owner := primitive.NewObjectID()
	orderID := primitive.NewObjectID()
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
			return &models.Order{ID: id, User: owner}, nil
		},
	}
	svc := newOrderService(orders, &paymentTypeRepoMock{}, newMemProductRepo(), &notifierMock{})

	order, err := svc.GetDetailsOfMe(context.Background(), owner, orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)

	_, err = svc.GetDetailsOfMe(context.Background(), primitive.NewObjectID(), orderID)
	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, utils.TypeUnauthorized, apiErr.Type)
}

func TestMarkPaidGuards(t *testing.T) {
	paid := models.Order{ID: primitive.NewObjectID(), IsPaid: models.FlagYes, Status: models.OrderAwaitingDelivery}
	cancelled := models.Order{ID: primitive.NewObjectID(), Status: models.OrderCancelled}
	awaiting := models.Order{ID: primitive.NewObjectID(), Status: models.OrderAwaitingPayment}

	store := map[primitive.ObjectID]*models.Order{
		paid.ID:      &paid,
		cancelled.ID: &cancelled,
		awaiting.ID:  &awaiting,
	}
	notifier := &notifierMock{}
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
			order, ok := store[id]
			if !ok {
				return nil, repository.ErrNotFound
			}
			copied := *order
			return &copied, nil
		},
		UpdateFn: func(_ context.Context, order *models.Order) error {
			store[order.ID] = order
			return nil
		},
	}
	svc := newOrderService(orders, &paymentTypeRepoMock{}, newMemProductRepo(), notifier)

	markPaid := UpdateStatusRequest{IsPaid: true}

	_, err := svc.UpdateStatus(context.Background(), paid.ID, markPaid)
	assertInvalid(t, err, "The order has already been paid")

	_, err = svc.UpdateStatus(context.Background(), cancelled.ID, markPaid)
	assertInvalid(t, err, "The order is not awaiting payment")

	updated, err := svc.UpdateStatus(context.Background(), awaiting.ID, markPaid)
	require.NoError(t, err)
	assert.Equal(t, models.FlagYes, updated.IsPaid)
	require.NotNil(t, updated.PaidAt)
	assert.Equal(t, []string{models.NotifyIsPaid}, notifier.titles())
}

func TestMarkDeliveredRequiresPayment(t *testing.T) {
	unpaid := models.Order{ID: primitive.NewObjectID(), Status: models.OrderAwaitingPayment}
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
			copied := unpaid
			return &copied, nil
		},
		UpdateFn: func(_ context.Context, _ *models.Order) error { return nil },
	}
	svc := newOrderService(orders, &paymentTypeRepoMock{}, newMemProductRepo(), &notifierMock{})

	_, err := svc.UpdateStatus(context.Background(), unpaid.ID, UpdateStatusRequest{IsDelivered: true})
	assertInvalid(t, err, "The order has not been paid yet")

	// Paying and delivering in one request is allowed.
	updated, err := svc.UpdateStatus(context.Background(), unpaid.ID, UpdateStatusRequest{IsPaid: true, IsDelivered: true})
	require.NoError(t, err)
	assert.Equal(t, models.FlagYes, updated.IsPaid)
	assert.Equal(t, models.FlagYes, updated.IsDelivered)
}

func TestUpdateStatusRejectsTerminalTransitions(t *testing.T) {
	completed := models.Order{ID: primitive.NewObjectID(), IsPaid: models.FlagYes, Status: models.OrderCompleted}
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
			copied := completed
			return &copied, nil
		},
	}
	svc := newOrderService(orders, &paymentTypeRepoMock{}, newMemProductRepo(), &notifierMock{})

	target := models.OrderAwaitingDelivery
	_, err := svc.UpdateStatus(context.Background(), completed.ID, UpdateStatusRequest{Status: &target})
	assertInvalid(t, err, "The order is in a terminal status")

	bogus := models.OrderStatus(9)
	_, err = svc.UpdateStatus(context.Background(), completed.ID, UpdateStatusRequest{Status: &bogus})
	assertInvalid(t, err, "The status is not valid")
}

func TestCancelGuards(t *testing.T) {
	owner := primitive.NewObjectID()
	paid := models.Order{ID: primitive.NewObjectID(), User: owner, IsPaid: models.FlagYes, Status: models.OrderAwaitingDelivery}
	cancelled := models.Order{ID: primitive.NewObjectID(), User: owner, Status: models.OrderCancelled}
	open := models.Order{ID: primitive.NewObjectID(), User: owner, Status: models.OrderAwaitingPayment}

	store := map[primitive.ObjectID]*models.Order{
		paid.ID:      &paid,
		cancelled.ID: &cancelled,
		open.ID:      &open,
	}
	notifier := &notifierMock{}
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
			order, ok := store[id]
			if !ok {
				return nil, repository.ErrNotFound
			}
			copied := *order
			return &copied, nil
		},
		UpdateFn: func(_ context.Context, order *models.Order) error {
			store[order.ID] = order
			return nil
		},
	}
	svc := newOrderService(orders, &paymentTypeRepoMock{}, newMemProductRepo(), notifier)

	_, err := svc.Cancel(context.Background(), primitive.NewObjectID())
	assertInvalid(t, err, "The order is not existed")

	_, err = svc.Cancel(context.Background(), paid.ID)
	assertInvalid(t, err, "Cannot cancel order that has been paid")

	_, err = svc.CancelOfMe(context.Background(), primitive.NewObjectID(), open.ID)
	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, utils.TypeUnauthorized, apiErr.Type)

	updated, err := svc.CancelOfMe(context.Background(), owner, open.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, updated.Status)

	// A second cancel is rejected instead of silently repeated.
	_, err = svc.CancelOfMe(context.Background(), owner, open.ID)
	assertInvalid(t, err, "The order has already been cancelled")

	assert.Equal(t, []string{models.NotifyCancelOrder}, notifier.titles())
}

func TestDeleteOrderReleasesStock(t *testing.T) {
	productID := primitive.NewObjectID()
	products := newMemProductRepo(&models.Product{ID: productID, CountInStock: 3, Sold: 2})
	order := models.Order{
		ID:         primitive.NewObjectID(),
		OrderItems: []models.OrderItem{{Product: productID, Amount: 2}},
	}
	deleted := false
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
			copied := order
			return &copied, nil
		},
		DeleteFn: func(_ context.Context, _ primitive.ObjectID) error {
			deleted = true
			return nil
		},
	}
	svc := newOrderService(orders, &paymentTypeRepoMock{}, products, &notifierMock{})

	_, err := svc.Delete(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	product, err := products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), product.CountInStock)
	assert.Equal(t, int64(0), product.Sold)
}
