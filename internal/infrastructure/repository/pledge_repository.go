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

// MongoPledgeRepository implements PledgeStore using MongoDB
type MongoPledgeRepository struct {
	collection *mongo.Collection
}

// NewMongoPledgeRepository creates a new MongoDB pledge repository
func NewMongoPledgeRepository(db *mongo.Database) ports.PledgeStore {
	return &MongoPledgeRepository{
		collection: db.Collection("pledges"),
	}
}

// List retrieves pledges sorted by creation time, newest first
func (r *MongoPledgeRepository) List(ctx context.Context, limit, offset int64) ([]*domain.Pledge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pledges: %w", err)
	}
	defer cursor.Close(ctx)

	return decodePledges(ctx, cursor)
}

// ListByContact retrieves a contact's pledges, newest first
func (r *MongoPledgeRepository) ListByContact(ctx context.Context, contactID string, limit int64) ([]*domain.Pledge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"contact_id": contactID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pledges: %w", err)
	}
	defer cursor.Close(ctx)

	return decodePledges(ctx, cursor)
}

// GetByID retrieves a pledge by id
func (r *MongoPledgeRepository) GetByID(ctx context.Context, id string) (*domain.Pledge, error) {
	var pledge domain.Pledge

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pledge)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pledge: %w", err)
	}

	return &pledge, nil
}

// Create inserts a new pledge, assigning an id and timestamps when absent
func (r *MongoPledgeRepository) Create(ctx context.Context, pledge *domain.Pledge) error {
	if pledge.ID == "" {
		pledge.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pledge.CreatedAt.IsZero() {
		pledge.CreatedAt = now
	}
	pledge.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, pledge)
	if err != nil {
		return fmt.Errorf("failed to create pledge: %w", err)
	}

	return nil
}

// Update applies a partial field set and returns the updated pledge
func (r *MongoPledgeRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Pledge, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		if key == "_id" || key == "id" {
			continue
		}
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var pledge domain.Pledge
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&pledge)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update pledge: %w", err)
	}

	return &pledge, nil
}

// Delete removes a pledge by id
func (r *MongoPledgeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete pledge: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetSyncState writes the sync projection for one integration
func (r *MongoPledgeRepository) SetSyncState(ctx context.Context, id, integration string, state domain.SyncState) error {
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

func decodePledges(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Pledge, error) {
	var pledges []*domain.Pledge
	for cursor.Next(ctx) {
		var pledge domain.Pledge
		if err := cursor.Decode(&pledge); err != nil {
			return nil, fmt.Errorf("failed to decode pledge: %w", err)
		}
		pledges = append(pledges, &pledge)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return pledges, nil
}
