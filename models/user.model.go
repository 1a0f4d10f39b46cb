package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User status values.
const (
	UserDisabled = 0
	UserEnabled  = 1
)

// User account types.
const (
	UserTypeGoogle   = 1
	UserTypeFacebook = 2
	UserTypeDefault  = 3
)

// Address is one entry of a user's address book. At most one address may be
// the default.
type Address struct {
	Address     string `bson:"address" json:"address"`
	City        string `bson:"city" json:"city"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
	MiddleName  string `bson:"middleName" json:"middleName"`
	IsDefault   bool   `bson:"isDefault" json:"isDefault"`
}

// User represents an account. Email is unique across the collection.
type User struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"_id,omitempty"`
	FirstName            string               `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName             string               `bson:"lastName,omitempty" json:"lastName,omitempty"`
	MiddleName           string               `bson:"middleName,omitempty" json:"middleName,omitempty"`
	Email                string               `bson:"email" json:"email"`
	Password             string               `bson:"password,omitempty" json:"-"`
	Role                 primitive.ObjectID   `bson:"role,omitempty" json:"role,omitempty"`
	PhoneNumber          string               `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Avatar               string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Status               int                  `bson:"status" json:"status"`
	UserType             int                  `bson:"userType" json:"userType"`
	LikedProducts        []primitive.ObjectID `bson:"likedProducts,omitempty" json:"likedProducts,omitempty"`
	ViewedProducts       []primitive.ObjectID `bson:"viewedProducts,omitempty" json:"viewedProducts,omitempty"`
	Addresses            []Address            `bson:"addresses,omitempty" json:"addresses,omitempty"`
	DeviceTokens         []string             `bson:"deviceTokens,omitempty" json:"deviceTokens,omitempty"`
	ResetToken           string               `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiration *time.Time           `bson:"resetTokenExpiration,omitempty" json:"-"`
	CreatedAt            time.Time            `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt            time.Time            `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
