package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification contexts.
const (
	ContextOrder        = "ORDER"
	ContextPaymentVNPay = "PAYMENT_VN_PAY"
)

// Notification titles for order lifecycle events.
const (
	NotifyCreateOrder         = "CREATE_ORDER"
	NotifyCancelOrder         = "CANCEL_ORDER"
	NotifyWaitPayment         = "WAIT_PAYMENT"
	NotifyWaitDelivery        = "WAIT_DELIVERY"
	NotifyDoneOrder           = "DONE_ORDER"
	NotifyIsPaid              = "IS_PAID"
	NotifyIsDelivered         = "IS_DELIVERED"
	NotifyPaymentVNPaySuccess = "PAYMENT_VN_PAY_SUCCESS"
	NotifyPaymentVNPayError   = "PAYMENT_VN_PAY_ERROR"
)

// Recipient tracks per-user read state of a notification.
type Recipient struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	IsRead bool               `bson:"isRead" json:"isRead"`
}

// Notification is a persisted lifecycle event fanned out to users.
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Context      string             `bson:"context" json:"context"`
	Title        string             `bson:"title" json:"title"`
	Body         string             `bson:"body" json:"body"`
	ReferenceID  string             `bson:"referenceId,omitempty" json:"referenceId,omitempty"`
	RecipientIDs []Recipient        `bson:"recipientIds" json:"recipientIds"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
