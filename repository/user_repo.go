package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-shop/models"
)

// MongoUserRepo implements UserRepo on the users collection.
type MongoUserRepo struct {
	collection *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{collection: db.Collection("users")}
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks a user up by email, optionally restricted to one account
// type. Pass 0 to match any type.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string, userType int) (*models.User, error) {
	query := bson.M{"email": email}
	if userType != 0 {
		query["userType"] = userType
	}
	return r.findOne(ctx, query)
}

func (r *MongoUserRepo) ExistsByEmail(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	query := bson.M{"email": email}
	if !exclude.IsZero() {
		query["_id"] = bson.M{"$ne": exclude}
	}
	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) AddDeviceToken(ctx context.Context, id primitive.ObjectID, deviceToken string) error {
	// $addToSet keeps the token set free of duplicates.
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"deviceTokens": deviceToken},
	})
	return err
}

func (r *MongoUserRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"resetToken": token, "resetTokenExpiration": expiry},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{
		"resetToken":           token,
		"resetTokenExpiration": bson.M{"$gt": time.Now()},
	})
}

// SetPassword stores the new hash and clears any pending reset token.
func (r *MongoUserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": hash},
		"$unset": bson.M{"resetToken": "", "resetTokenExpiration": ""},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepo) FindByRoles(ctx context.Context, roleIDs []primitive.ObjectID) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"role": bson.M{"$in": roleIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, query bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, query).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
