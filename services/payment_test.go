package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-shop/config"
	"go-shop/models"
	"go-shop/repository"
)

const testSecret = "payment-secret"

func newPaymentService(orders *orderRepoMock, notifier *notifierMock) *PaymentService {
	cfg := config.VNPayConfig{
		TmnCode:   "TESTCODE",
		SecretKey: testSecret,
		PayURL:    "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL: "https://shop.example.com/payment",
	}
	svc := NewPaymentService(cfg, orders, notifier, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC) }
	return svc
}

// signQuery computes the hash the gateway would attach to a callback.
func signQuery(params map[string]string) string {
	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write([]byte(encodeSorted(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

func ipnQuery(params map[string]string) url.Values {
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	query.Set("vnp_SecureHash", signQuery(params))
	return query
}

func TestCreatePaymentURL(t *testing.T) {
	svc := newPaymentService(&orderRepoMock{}, &notifierMock{})
	orderID := primitive.NewObjectID().Hex()

	rawURL, err := svc.CreatePaymentURL(context.Background(), CreatePaymentURLRequest{
		OrderID:    orderID,
		TotalPrice: 150000,
	}, "10.0.0.1")
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, orderID, query.Get("vnp_TxnRef"))
	assert.Equal(t, "15000000", query.Get("vnp_Amount"))
	assert.Equal(t, "20240520093000", query.Get("vnp_CreateDate"))
	assert.Equal(t, "vn", query.Get("vnp_Locale"))

	// The attached hash covers every other parameter.
	params := make(map[string]string)
	for key := range query {
		if key == "vnp_SecureHash" {
			continue
		}
		params[key] = query.Get(key)
	}
	assert.Equal(t, signQuery(params), query.Get("vnp_SecureHash"))
}

func TestCreatePaymentURLRequiresOrderID(t *testing.T) {
	svc := newPaymentService(&orderRepoMock{}, &notifierMock{})
	_, err := svc.CreatePaymentURL(context.Background(), CreatePaymentURLRequest{TotalPrice: 10}, "10.0.0.1")
	assertInvalid(t, err, "The field orderId is required")
}

func TestHandleIPNMarksOrderPaid(t *testing.T) {
	order := models.Order{
		ID:         primitive.NewObjectID(),
		User:       primitive.NewObjectID(),
		Status:     models.OrderAwaitingPayment,
		TotalPrice: 150000,
	}
	var saved *models.Order
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
			if id != order.ID {
				return nil, repository.ErrNotFound
			}
			copied := order
			return &copied, nil
		},
		UpdateFn: func(_ context.Context, updated *models.Order) error {
			saved = updated
			return nil
		},
	}
	notifier := &notifierMock{}
	svc := newPaymentService(orders, notifier)

	result, err := svc.HandleIPN(context.Background(), ipnQuery(map[string]string{
		"vnp_TxnRef":       order.ID.Hex(),
		"vnp_ResponseCode": "00",
		"vnp_Amount":       "15000000",
	}))
	require.NoError(t, err)
	assert.Equal(t, "00", result.RspCode)
	assert.Equal(t, order.TotalPrice, result.TotalPrice)

	require.NotNil(t, saved)
	assert.Equal(t, models.FlagYes, saved.IsPaid)
	require.NotNil(t, saved.PaidAt)
	assert.Equal(t, models.OrderAwaitingDelivery, saved.Status)
	assert.Equal(t, []string{models.NotifyPaymentVNPaySuccess}, notifier.titles())
}

func TestHandleIPNRejectsTamperedParams(t *testing.T) {
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
			t.Fatal("order must not be loaded on checksum failure")
			return nil, nil
		},
	}
	svc := newPaymentService(orders, &notifierMock{})

	query := ipnQuery(map[string]string{
		"vnp_TxnRef":       primitive.NewObjectID().Hex(),
		"vnp_ResponseCode": "24",
	})
	query.Set("vnp_ResponseCode", "00")

	result, err := svc.HandleIPN(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, "97", result.RspCode)
}

func TestHandleIPNUnknownOrder(t *testing.T) {
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := newPaymentService(orders, &notifierMock{})

	result, err := svc.HandleIPN(context.Background(), ipnQuery(map[string]string{
		"vnp_TxnRef":       primitive.NewObjectID().Hex(),
		"vnp_ResponseCode": "00",
	}))
	require.NoError(t, err)
	assert.Equal(t, "01", result.RspCode)

	result, err = svc.HandleIPN(context.Background(), ipnQuery(map[string]string{
		"vnp_TxnRef":       "not-an-object-id",
		"vnp_ResponseCode": "00",
	}))
	require.NoError(t, err)
	assert.Equal(t, "01", result.RspCode)
}

func TestHandleIPNFailedPayment(t *testing.T) {
	order := models.Order{
		ID:     primitive.NewObjectID(),
		User:   primitive.NewObjectID(),
		Status: models.OrderAwaitingPayment,
	}
	orders := &orderRepoMock{
		GetByIDFn: func(_ context.Context, _ primitive.ObjectID) (*models.Order, error) {
			copied := order
			return &copied, nil
		},
		UpdateFn: func(_ context.Context, _ *models.Order) error {
			t.Fatal("a failed payment must not update the order")
			return nil
		},
	}
	notifier := &notifierMock{}
	svc := newPaymentService(orders, notifier)

	result, err := svc.HandleIPN(context.Background(), ipnQuery(map[string]string{
		"vnp_TxnRef":       order.ID.Hex(),
		"vnp_ResponseCode": "24",
	}))
	require.NoError(t, err)
	assert.Equal(t, "97", result.RspCode)
	assert.Equal(t, []string{models.NotifyPaymentVNPayError}, notifier.titles())
}
