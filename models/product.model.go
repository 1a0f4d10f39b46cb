package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product visibility.
const (
	ProductHidden  = 0
	ProductVisible = 1
)

// Product is a sellable item. CountInStock never goes negative: every
// decrement is guarded at the database level.
type Product struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"_id,omitempty"`
	Name              string               `bson:"name" json:"name"`
	Slug              string               `bson:"slug" json:"slug"`
	Image             string               `bson:"image,omitempty" json:"image,omitempty"`
	Price             float64              `bson:"price" json:"price"`
	CountInStock      int64                `bson:"countInStock" json:"countInStock"`
	Description       string               `bson:"description,omitempty" json:"description,omitempty"`
	Discount          float64              `bson:"discount,omitempty" json:"discount,omitempty"`
	DiscountStartDate *time.Time           `bson:"discountStartDate,omitempty" json:"discountStartDate,omitempty"`
	DiscountEndDate   *time.Time           `bson:"discountEndDate,omitempty" json:"discountEndDate,omitempty"`
	Sold              int64                `bson:"sold" json:"sold"`
	LikedBy           []primitive.ObjectID `bson:"likedBy,omitempty" json:"likedBy,omitempty"`
	TotalLikes        int64                `bson:"totalLikes" json:"totalLikes"`
	Status            int                  `bson:"status" json:"status"`
	Views             int64                `bson:"views" json:"views"`
	UniqueViews       []primitive.ObjectID `bson:"uniqueViews,omitempty" json:"uniqueViews,omitempty"`
	CreatedAt         time.Time            `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt         time.Time            `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
