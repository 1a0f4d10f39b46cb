package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment type flags. An order paid with a PaymentLater method starts in
// the awaiting-delivery state instead of awaiting payment.
const (
	PaymentVNPay = "VN_PAYMENT"
	PaymentLater = "PAYMENT_LATER"
)

// PaymentType is a reference-data payment method.
type PaymentType struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// DeliveryType is a reference-data delivery method.
type DeliveryType struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
