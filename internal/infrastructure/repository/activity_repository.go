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

// MongoActivityRepository implements ActivityStore using MongoDB
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoDB activity repository
func NewMongoActivityRepository(db *mongo.Database) ports.ActivityStore {
	return &MongoActivityRepository{
		collection: db.Collection("activities"),
	}
}

// ListByContact retrieves a contact's activities, newest first
func (r *MongoActivityRepository) ListByContact(ctx context.Context, contactID string, limit int64) ([]*domain.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"contact_id": contactID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*domain.Activity
	for cursor.Next(ctx) {
		var activity domain.Activity
		if err := cursor.Decode(&activity); err != nil {
			return nil, fmt.Errorf("failed to decode activity: %w", err)
		}
		activities = append(activities, &activity)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return activities, nil
}

// GetByID retrieves an activity by id
func (r *MongoActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	var activity domain.Activity

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return &activity, nil
}

// Create inserts a new activity, assigning an id and timestamps when absent
func (r *MongoActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = now
	}
	activity.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// Update applies a partial field set and returns the updated activity
func (r *MongoActivityRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Activity, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		if key == "_id" || key == "id" {
			continue
		}
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var activity domain.Activity
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&activity)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	return &activity, nil
}

// Delete removes an activity by id
func (r *MongoActivityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetSyncState writes the sync projection for one integration
func (r *MongoActivityRepository) SetSyncState(ctx context.Context, id, integration string, state domain.SyncState) error {
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
