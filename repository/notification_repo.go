package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-shop/models"
)

// MongoNotificationRepo implements NotificationRepo on the notifications
// collection.
type MongoNotificationRepo struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepo(db *mongo.Database) *MongoNotificationRepo {
	return &MongoNotificationRepo{collection: db.Collection("notifications")}
}

func (r *MongoNotificationRepo) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	now := time.Now()
	notification.CreatedAt = now
	notification.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return nil, err
	}
	notification.ID = result.InsertedID.(primitive.ObjectID)
	return notification, nil
}

func (r *MongoNotificationRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, int64, error) {
	query := bson.M{"recipientIds.userId": userID}

	totalCount, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip((page - 1) * limit).SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, totalCount, nil
}

// MarkRead flips the caller's recipient entry; other recipients are left
// untouched.
func (r *MongoNotificationRepo) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipientIds.userId": userID},
		bson.M{"$set": bson.M{"recipientIds.$.isRead": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNotificationRepo) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipientIds.userId": userID},
		bson.M{"$set": bson.M{"recipientIds.$.isRead": true}},
	)
	return err
}

func (r *MongoNotificationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
