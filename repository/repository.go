// Package repository holds the persistence ports and their MongoDB
// implementations. Services depend on the interfaces; tests swap in mocks.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/models"
)

// ErrNotFound is returned when a looked-up document does not exist.
var ErrNotFound = errors.New("repository: not found")

// UserRepo is the users collection port.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string, userType int) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error)
	Update(ctx context.Context, user *models.User) error
	AddDeviceToken(ctx context.Context, id primitive.ObjectID, deviceToken string) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	FindByRoles(ctx context.Context, roleIDs []primitive.ObjectID) ([]models.User, error)
}

// RoleRepo is the roles collection port.
type RoleRepo interface {
	Create(ctx context.Context, role *models.Role) (*models.Role, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error)
	GetByName(ctx context.Context, name string, exclude primitive.ObjectID) (*models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) error
	List(ctx context.Context) ([]models.Role, error)
	FindByPermission(ctx context.Context, permission string) ([]models.Role, error)
}

// ProductRepo is the products collection port. ReserveStock is the single
// atomic conditional update the reservation engine rests on.
type ProductRepo interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	// ReserveStock decrements countInStock and increments sold by amount,
	// guarded by countInStock >= amount. It reports false when the guard
	// fails; no document is modified in that case.
	ReserveStock(ctx context.Context, id primitive.ObjectID, amount int64) (bool, error)
	// ReleaseStock is the unconditional compensating update.
	ReleaseStock(ctx context.Context, id primitive.ObjectID, amount int64) error
}

// OrderListParams filters and pages order listings.
type OrderListParams struct {
	UserID   primitive.ObjectID
	Statuses []models.OrderStatus
	Search   string
	Page     int64
	Limit    int64
}

// OrderRepo is the orders collection port.
type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params OrderListParams) ([]models.Order, int64, error)
}

// PaymentTypeRepo resolves payment-method references on orders.
type PaymentTypeRepo interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentType, error)
}

// NotificationRepo is the notifications collection port.
type NotificationRepo interface {
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
