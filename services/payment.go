package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-shop/config"
	"go-shop/models"
	"go-shop/repository"
	"go-shop/utils"
)

// VNPay response codes returned to the gateway from the IPN endpoint.
const (
	vnpCodeSuccess        = "00"
	vnpCodeOrderNotFound  = "01"
	vnpCodeChecksumFailed = "97"
)

// CreatePaymentURLRequest asks for a redirect URL to the VNPay gateway.
type CreatePaymentURLRequest struct {
	OrderID    string  `json:"orderId"`
	TotalPrice float64 `json:"totalPrice"`
	Language   string  `json:"language"`
	BankCode   string  `json:"bankCode"`
}

// IPNResult is the body answered to the gateway's server-to-server callback.
type IPNResult struct {
	RspCode    string  `json:"RspCode"`
	TotalPrice float64 `json:"totalPrice,omitempty"`
}

// PaymentService is the VNPay adapter. It owns signature construction and
// verification; nothing else in the system looks at provider fields.
type PaymentService struct {
	cfg      config.VNPayConfig
	orders   repository.OrderRepo
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewPaymentService(cfg config.VNPayConfig, orders repository.OrderRepo, notifier Notifier, log *zap.Logger) *PaymentService {
	return &PaymentService{
		cfg:      cfg,
		orders:   orders,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// CreatePaymentURL builds the signed gateway URL the client is redirected to.
func (s *PaymentService) CreatePaymentURL(ctx context.Context, req CreatePaymentURLRequest, clientIP string) (string, error) {
	if req.OrderID == "" {
		return "", utils.ErrInvalid("The field orderId is required")
	}

	now := s.now()
	locale := req.Language
	if locale == "" {
		locale = "vn"
	}
	bankCode := req.BankCode
	if bankCode == "" {
		bankCode = "NCB"
	}

	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    s.cfg.TmnCode,
		"vnp_Locale":     locale,
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     req.OrderID,
		"vnp_OrderInfo":  "Thanh toan cho ma GD:" + now.Format("02150405"),
		"vnp_OrderType":  "other",
		"vnp_Amount":     fmt.Sprintf("%.0f", req.TotalPrice*100),
		"vnp_ReturnUrl":  s.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": now.Format("20060102150405"),
		"vnp_BankCode":   bankCode,
	}

	signData := encodeSorted(params)
	params["vnp_SecureHash"] = s.sign(signData)

	return s.cfg.PayURL + "?" + encodeSorted(params), nil
}

// HandleIPN verifies the gateway callback and feeds the result into the order
// lifecycle: a verified success marks the order paid and moves it to awaiting
// delivery; anything else only emits a payment-failed event.
func (s *PaymentService) HandleIPN(ctx context.Context, query url.Values) (IPNResult, error) {
	params := make(map[string]string, len(query))
	for key := range query {
		params[key] = query.Get(key)
	}

	secureHash := params["vnp_SecureHash"]
	delete(params, "vnp_SecureHash")
	delete(params, "vnp_SecureHashType")

	if !hmac.Equal([]byte(secureHash), []byte(s.sign(encodeSorted(params)))) {
		return IPNResult{RspCode: vnpCodeChecksumFailed}, nil
	}

	orderID, err := primitive.ObjectIDFromHex(params["vnp_TxnRef"])
	if err != nil {
		return IPNResult{RspCode: vnpCodeOrderNotFound}, nil
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err == repository.ErrNotFound {
		return IPNResult{RspCode: vnpCodeOrderNotFound}, nil
	}
	if err != nil {
		return IPNResult{}, err
	}

	if params["vnp_ResponseCode"] != vnpCodeSuccess {
		s.notifier.Dispatch(ctx, order.User, models.ContextPaymentVNPay, models.NotifyPaymentVNPayError,
			fmt.Sprintf("Payment for order %s has failed", order.ID.Hex()), order.ID.Hex())
		return IPNResult{RspCode: vnpCodeChecksumFailed}, nil
	}

	now := s.now()
	order.IsPaid = models.FlagYes
	order.PaidAt = &now
	order.Status = models.OrderAwaitingDelivery
	if err := s.orders.Update(ctx, order); err != nil {
		return IPNResult{}, err
	}

	s.notifier.Dispatch(ctx, order.User, models.ContextPaymentVNPay, models.NotifyPaymentVNPaySuccess,
		fmt.Sprintf("Order %s has been paid successfully", order.ID.Hex()), order.ID.Hex())

	return IPNResult{RspCode: vnpCodeSuccess, TotalPrice: order.TotalPrice}, nil
}

// sign computes the HMAC-SHA512 hex digest over the canonical parameter
// string.
func (s *PaymentService) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(s.cfg.SecretKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// encodeSorted builds the canonical string the signature covers: parameters
// sorted by key, values URL-encoded with spaces as '+', joined with '&'.
func encodeSorted(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[key]))
	}
	return b.String()
}
