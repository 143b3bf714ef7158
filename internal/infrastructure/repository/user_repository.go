package repository

import (
	"context"
	"fmt"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserStore using MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *mongo.Database) ports.UserStore {
	return &MongoUserRepository{
		collection: db.Collection("users"),
	}
}

// GetByID retrieves a user by id
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User

	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Create inserts a new user, enforcing email uniqueness
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// MongoTokenRepository implements TokenStore using MongoDB. Token documents
// carry a TTL index on expires_at so Mongo reaps expired tokens itself.
type MongoTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoTokenRepository creates a new MongoDB token repository
func NewMongoTokenRepository(db *mongo.Database) ports.TokenStore {
	return &MongoTokenRepository{
		collection: db.Collection("api_tokens"),
	}
}

// Create inserts a new token
func (r *MongoTokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	_, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	return nil
}

// GetByToken retrieves a token record by its value
func (r *MongoTokenRepository) GetByToken(ctx context.Context, token string) (*domain.APIToken, error) {
	var record domain.APIToken

	err := r.collection.FindOne(ctx, bson.M{"_id": token}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &record, nil
}

// Delete removes a token by its value
func (r *MongoTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": token})
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
