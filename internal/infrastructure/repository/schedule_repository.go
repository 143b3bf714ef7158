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

// MongoScheduleRepository implements ScheduleStore using MongoDB
type MongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a new MongoDB schedule repository
func NewMongoScheduleRepository(db *mongo.Database) ports.ScheduleStore {
	return &MongoScheduleRepository{
		collection: db.Collection("schedules"),
	}
}

// ListByContact retrieves a contact's scheduled items, earliest first
func (r *MongoScheduleRepository) ListByContact(ctx context.Context, contactID string) ([]*domain.Schedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"contact_id": contactID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeSchedules(ctx, cursor)
}

// ListUpcoming retrieves schedules starting at or after the given time,
// excluding cancelled ones
func (r *MongoScheduleRepository) ListUpcoming(ctx context.Context, from time.Time, limit int64) ([]*domain.Schedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	filter := bson.M{
		"start_time": bson.M{"$gte": from},
		"status":     bson.M{"$ne": domain.ScheduleStatusCancelled},
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming schedules: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeSchedules(ctx, cursor)
}

// Create inserts a new schedule
func (r *MongoScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.Status == "" {
		schedule.Status = domain.ScheduleStatusScheduled
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// Update applies a partial field set and returns the updated schedule
func (r *MongoScheduleRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Schedule, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		if key == "_id" || key == "id" {
			continue
		}
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var schedule domain.Schedule
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&schedule)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	return &schedule, nil
}

// Delete removes a schedule by id
func (r *MongoScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func decodeSchedules(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Schedule, error) {
	var schedules []*domain.Schedule
	for cursor.Next(ctx) {
		var schedule domain.Schedule
		if err := cursor.Decode(&schedule); err != nil {
			return nil, fmt.Errorf("failed to decode schedule: %w", err)
		}
		schedules = append(schedules, &schedule)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return schedules, nil
}
