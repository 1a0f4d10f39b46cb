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

// MongoRoleRepo implements RoleRepo on the roles collection.
type MongoRoleRepo struct {
	collection *mongo.Collection
}

func NewMongoRoleRepo(db *mongo.Database) *MongoRoleRepo {
	return &MongoRoleRepo{collection: db.Collection("roles")}
}

func (r *MongoRoleRepo) Create(ctx context.Context, role *models.Role) (*models.Role, error) {
	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, role)
	if err != nil {
		return nil, err
	}
	role.ID = result.InsertedID.(primitive.ObjectID)
	return role, nil
}

func (r *MongoRoleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByName finds a role by name, excluding one id when checking uniqueness
// on rename.
func (r *MongoRoleRepo) GetByName(ctx context.Context, name string, exclude primitive.ObjectID) (*models.Role, error) {
	query := bson.M{"name": name}
	if !exclude.IsZero() {
		query["_id"] = bson.M{"$ne": exclude}
	}
	return r.findOne(ctx, query)
}

func (r *MongoRoleRepo) Update(ctx context.Context, role *models.Role) error {
	role.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": role.ID}, role)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRoleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRoleRepo) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (r *MongoRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []models.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *MongoRoleRepo) FindByPermission(ctx context.Context, permission string) ([]models.Role, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"permissions": permission})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []models.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *MongoRoleRepo) findOne(ctx context.Context, query bson.M) (*models.Role, error) {
	var role models.Role
	err := r.collection.FindOne(ctx, query).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}
