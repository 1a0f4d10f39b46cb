package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-shop/models"
)

// MongoProductRepo implements ProductRepo on the products collection.
type MongoProductRepo struct {
	collection *mongo.Collection
}

func NewMongoProductRepo(db *mongo.Database) *MongoProductRepo {
	return &MongoProductRepo{collection: db.Collection("products")}
}

func (r *MongoProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReserveStock is a single findOneAndUpdate: the stock guard and the
// decrement happen in one atomic step, which is what makes concurrent
// reservations against the same product safe.
func (r *MongoProductRepo) ReserveStock(ctx context.Context, id primitive.ObjectID, amount int64) (bool, error) {
	filter := bson.M{
		"_id":          id,
		"countInStock": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"countInStock": -amount, "sold": amount},
	}

	var updated models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoProductRepo) ReleaseStock(ctx context.Context, id primitive.ObjectID, amount int64) error {
	update := bson.M{
		"$inc": bson.M{"countInStock": amount, "sold": -amount},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
