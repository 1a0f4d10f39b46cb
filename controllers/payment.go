package controllers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"go-shop/services"
	"go-shop/utils"
)

// PaymentController handles the VNPay gateway endpoints.
type PaymentController struct {
	payment *services.PaymentService
}

func NewPaymentController(payment *services.PaymentService) *PaymentController {
	return &PaymentController{payment: payment}
}

// CreatePaymentURL answers with the signed redirect URL for an order.
func (c *PaymentController) CreatePaymentURL(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePaymentURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}

	paymentURL, err := c.payment.CreatePaymentURL(r.Context(), req, clientIP(r))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Create payment url success", map[string]string{
		"paymentUrl": paymentURL,
	})
}

// IPN is the gateway's server-to-server callback. The gateway expects a bare
// RspCode body, not the regular envelope.
func (c *PaymentController) IPN(w http.ResponseWriter, r *http.Request) {
	result, err := c.payment.HandleIPN(r.Context(), r.URL.Query())
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// clientIP resolves the caller's address, preferring the forwarding header
// set by the proxy in front.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
