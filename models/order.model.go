package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order lifecycle state.
type OrderStatus int

const (
	OrderAwaitingPayment  OrderStatus = 0
	OrderAwaitingDelivery OrderStatus = 1
	OrderCompleted        OrderStatus = 2
	OrderCancelled        OrderStatus = 3
)

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	return s >= OrderAwaitingPayment && s <= OrderCancelled
}

// Paid/delivered flags are stored as 0/1 numbers.
const (
	FlagNo  = 0
	FlagYes = 1
)

// OrderItem is one line of an order. Amount was reserved against the
// product's stock when the order was created.
type OrderItem struct {
	Name     string             `bson:"name" json:"name"`
	Amount   int64              `bson:"amount" json:"amount"`
	Image    string             `bson:"image" json:"image"`
	Price    float64            `bson:"price" json:"price"`
	Discount float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
}

// ShippingAddress is the delivery destination captured on the order.
type ShippingAddress struct {
	FullName string             `bson:"fullName" json:"fullName"`
	Address  string             `bson:"address" json:"address"`
	City     primitive.ObjectID `bson:"city" json:"city"`
	Phone    string             `bson:"phone" json:"phone"`
}

// Order is a placed order with its lifecycle fields.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   primitive.ObjectID `bson:"paymentMethod" json:"paymentMethod"`
	DeliveryMethod  primitive.ObjectID `bson:"deliveryMethod,omitempty" json:"deliveryMethod,omitempty"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	IsPaid          int                `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     int                `bson:"isDelivered" json:"isDelivered"`
	DeliveryAt      *time.Time         `bson:"deliveryAt,omitempty" json:"deliveryAt,omitempty"`
	Status          OrderStatus        `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt       time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
