package repository

import (
	"context"
	"fmt"
	"time"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrganizationRepository implements OrganizationStore using MongoDB
type MongoOrganizationRepository struct {
	collection *mongo.Collection
}

// NewMongoOrganizationRepository creates a new MongoDB organization repository
func NewMongoOrganizationRepository(db *mongo.Database) ports.OrganizationStore {
	return &MongoOrganizationRepository{
		collection: db.Collection("organizations"),
	}
}

// List retrieves all organizations sorted by name
func (r *MongoOrganizationRepository) List(ctx context.Context) ([]*domain.Organization, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer cursor.Close(ctx)

	var organizations []*domain.Organization
	for cursor.Next(ctx) {
		var org domain.Organization
		if err := cursor.Decode(&org); err != nil {
			return nil, fmt.Errorf("failed to decode organization: %w", err)
		}
		organizations = append(organizations, &org)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return organizations, nil
}

// GetByID retrieves an organization by id
func (r *MongoOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	var org domain.Organization

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

// Create inserts a new organization
func (r *MongoOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, org)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

// Update applies a partial field set and returns the updated organization
func (r *MongoOrganizationRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Organization, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		if key == "_id" || key == "id" {
			continue
		}
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var org domain.Organization
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return &org, nil
}

// Delete removes an organization by id
func (r *MongoOrganizationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
