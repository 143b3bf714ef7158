// Package repository implements the persistence ports using MongoDB.
package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContactRepository implements ContactStore using MongoDB
type MongoContactRepository struct {
	collection *mongo.Collection
}

// NewMongoContactRepository creates a new MongoDB contact repository
func NewMongoContactRepository(db *mongo.Database) ports.ContactStore {
	return &MongoContactRepository{
		collection: db.Collection("contacts"),
	}
}

// List retrieves contacts sorted by creation time, newest first
func (r *MongoContactRepository) List(ctx context.Context, limit, offset int64) ([]*domain.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []*domain.Contact
	for cursor.Next(ctx) {
		var contact domain.Contact
		if err := cursor.Decode(&contact); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return contacts, nil
}

// GetByID retrieves a contact by id
func (r *MongoContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	var contact domain.Contact

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}

// Create inserts a new contact, assigning an id and timestamps when absent
func (r *MongoContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// Update applies a partial field set and returns the updated contact
func (r *MongoContactRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Contact, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		if key == "_id" || key == "id" {
			continue
		}
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var contact domain.Contact
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&contact)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return &contact, nil
}

// Delete removes a contact by id
func (r *MongoContactRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search finds contacts by a case-insensitive match on name or email
func (r *MongoContactRepository) Search(ctx context.Context, query string) ([]*domain.Contact, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"first_name": pattern},
		{"last_name": pattern},
		{"email": pattern},
	}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(50))
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []*domain.Contact
	for cursor.Next(ctx) {
		var contact domain.Contact
		if err := cursor.Decode(&contact); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return contacts, nil
}

// SetSyncState writes the sync projection for one integration without
// touching the rest of the document
func (r *MongoContactRepository) SetSyncState(ctx context.Context, id, integration string, state domain.SyncState) error {
	update := bson.M{"$set": bson.M{
		"sync." + integration: state,
		"updated_at":          time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set sync state: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
