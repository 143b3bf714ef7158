package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEmailRepository implements EmailStore using MongoDB
type MongoEmailRepository struct {
	collection *mongo.Collection
}

// NewMongoEmailRepository creates a new MongoDB email log repository
func NewMongoEmailRepository(db *mongo.Database) ports.EmailStore {
	return &MongoEmailRepository{
		collection: db.Collection("email_logs"),
	}
}

// ListByContact retrieves a contact's email logs, most recent first
func (r *MongoEmailRepository) ListByContact(ctx context.Context, contactID string, limit int64) ([]*domain.EmailLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"contact_id": contactID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list email logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*domain.EmailLog
	for cursor.Next(ctx) {
		var log domain.EmailLog
		if err := cursor.Decode(&log); err != nil {
			return nil, fmt.Errorf("failed to decode email log: %w", err)
		}
		logs = append(logs, &log)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return logs, nil
}

// Create inserts a new email log
func (r *MongoEmailRepository) Create(ctx context.Context, log *domain.EmailLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Status == "" {
		log.Status = domain.EmailStatusSent
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to create email log: %w", err)
	}

	return nil
}

// MarkOpened flags an email log as opened and stamps the open time,
// returning the updated record or (nil, nil) when missing
func (r *MongoEmailRepository) MarkOpened(ctx context.Context, id string) (*domain.EmailLog, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"opened": true, "opened_at": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var log domain.EmailLog
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark email log opened: %w", err)
	}

	return &log, nil
}

// Stats aggregates the email log counts across all contacts
func (r *MongoEmailRepository) Stats(ctx context.Context) (*domain.EmailStats, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count email logs: %w", err)
	}

	sent, err := r.collection.CountDocuments(ctx, bson.M{"status": domain.EmailStatusSent})
	if err != nil {
		return nil, fmt.Errorf("failed to count sent email logs: %w", err)
	}

	opened, err := r.collection.CountDocuments(ctx, bson.M{"opened": true})
	if err != nil {
		return nil, fmt.Errorf("failed to count opened email logs: %w", err)
	}

	failed, err := r.collection.CountDocuments(ctx, bson.M{"status": domain.EmailStatusFailed})
	if err != nil {
		return nil, fmt.Errorf("failed to count failed email logs: %w", err)
	}

	return &domain.EmailStats{
		Total:  total,
		Sent:   sent,
		Opened: opened,
		Failed: failed,
	}, nil
}
