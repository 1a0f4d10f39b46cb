package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-shop/models"
)

// MongoOrderRepo implements OrderRepo on the orders collection.
type MongoOrderRepo struct {
	collection *mongo.Collection
}

func NewMongoOrderRepo(db *mongo.Database) *MongoOrderRepo {
	return &MongoOrderRepo{collection: db.Collection("orders")}
}

func (r *MongoOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return nil, err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return order, nil
}

func (r *MongoOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepo) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepo) List(ctx context.Context, params OrderListParams) ([]models.Order, int64, error) {
	query := bson.M{}
	if !params.UserID.IsZero() {
		query["user"] = params.UserID
	}
	if len(params.Statuses) > 0 {
		query["status"] = bson.M{"$in": params.Statuses}
	}
	if params.Search != "" {
		query["orderItems.name"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	totalCount, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if params.Limit > 0 {
		page := params.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip((page - 1) * params.Limit).SetLimit(params.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, totalCount, nil
}

// MongoPaymentTypeRepo implements PaymentTypeRepo on the payment-types
// collection.
type MongoPaymentTypeRepo struct {
	collection *mongo.Collection
}

func NewMongoPaymentTypeRepo(db *mongo.Database) *MongoPaymentTypeRepo {
	return &MongoPaymentTypeRepo{collection: db.Collection("paymenttypes")}
}

func (r *MongoPaymentTypeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentType, error) {
	var paymentType models.PaymentType
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&paymentType)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &paymentType, nil
}
