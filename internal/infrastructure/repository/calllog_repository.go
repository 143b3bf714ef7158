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

// MongoCallLogRepository implements CallLogStore using MongoDB
type MongoCallLogRepository struct {
	collection *mongo.Collection
}

// NewMongoCallLogRepository creates a new MongoDB call log repository
func NewMongoCallLogRepository(db *mongo.Database) ports.CallLogStore {
	return &MongoCallLogRepository{
		collection: db.Collection("call_logs"),
	}
}

// ListByContact retrieves a contact's call logs, most recent call first
func (r *MongoCallLogRepository) ListByContact(ctx context.Context, contactID string, limit int64) ([]*domain.CallLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "call_date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"contact_id": contactID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*domain.CallLog
	for cursor.Next(ctx) {
		var log domain.CallLog
		if err := cursor.Decode(&log); err != nil {
			return nil, fmt.Errorf("failed to decode call log: %w", err)
		}
		logs = append(logs, &log)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return logs, nil
}

// Create inserts a new call log
func (r *MongoCallLogRepository) Create(ctx context.Context, log *domain.CallLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to create call log: %w", err)
	}

	return nil
}

// Delete removes a call log by id
func (r *MongoCallLogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete call log: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
