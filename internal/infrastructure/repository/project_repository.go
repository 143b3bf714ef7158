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

// MongoProjectRepository implements ProjectStore using MongoDB. Projects,
// pipeline stages and deals live in separate collections keyed by project id.
type MongoProjectRepository struct {
	projectsCollection *mongo.Collection
	stagesCollection   *mongo.Collection
	dealsCollection    *mongo.Collection
}

// NewMongoProjectRepository creates a new MongoDB project repository
func NewMongoProjectRepository(db *mongo.Database) ports.ProjectStore {
	return &MongoProjectRepository{
		projectsCollection: db.Collection("projects"),
		stagesCollection:   db.Collection("pipeline_stages"),
		dealsCollection:    db.Collection("deals"),
	}
}

// List retrieves projects sorted by creation time, newest first
func (r *MongoProjectRepository) List(ctx context.Context, limit, offset int64) ([]*domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.projectsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*domain.Project
	for cursor.Next(ctx) {
		var project domain.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, fmt.Errorf("failed to decode project: %w", err)
		}
		projects = append(projects, &project)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return projects, nil
}

// GetByID retrieves a project by id
func (r *MongoProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project

	err := r.projectsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// Create inserts a new project, assigning an id and timestamps when absent
func (r *MongoProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	_, err := r.projectsCollection.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Update applies a partial field set and returns the updated project
func (r *MongoProjectRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		if key == "_id" || key == "id" {
			continue
		}
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var project domain.Project
	err := r.projectsCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return &project, nil
}

// Delete removes a project and its stages and deals
func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.projectsCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}

	if _, err := r.stagesCollection.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
		return fmt.Errorf("failed to delete project stages: %w", err)
	}
	if _, err := r.dealsCollection.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
		return fmt.Errorf("failed to delete project deals: %w", err)
	}
	return nil
}

// ListStages retrieves a project's pipeline stages in position order
func (r *MongoProjectRepository) ListStages(ctx context.Context, projectID string) ([]*domain.PipelineStage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.stagesCollection.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer cursor.Close(ctx)

	var stages []*domain.PipelineStage
	for cursor.Next(ctx) {
		var stage domain.PipelineStage
		if err := cursor.Decode(&stage); err != nil {
			return nil, fmt.Errorf("failed to decode stage: %w", err)
		}
		stages = append(stages, &stage)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return stages, nil
}

// CreateStage inserts a new pipeline stage
func (r *MongoProjectRepository) CreateStage(ctx context.Context, stage *domain.PipelineStage) error {
	if stage.ID == "" {
		stage.ID = uuid.NewString()
	}
	if stage.CreatedAt.IsZero() {
		stage.CreatedAt = time.Now().UTC()
	}

	_, err := r.stagesCollection.InsertOne(ctx, stage)
	if err != nil {
		return fmt.Errorf("failed to create stage: %w", err)
	}

	return nil
}

// ListDeals retrieves a project's deals, newest first
func (r *MongoProjectRepository) ListDeals(ctx context.Context, projectID string) ([]*domain.Deal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.dealsCollection.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer cursor.Close(ctx)

	var deals []*domain.Deal
	for cursor.Next(ctx) {
		var deal domain.Deal
		if err := cursor.Decode(&deal); err != nil {
			return nil, fmt.Errorf("failed to decode deal: %w", err)
		}
		deals = append(deals, &deal)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return deals, nil
}

// CreateDeal inserts a new deal
func (r *MongoProjectRepository) CreateDeal(ctx context.Context, deal *domain.Deal) error {
	if deal.ID == "" {
		deal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = now
	}
	deal.UpdatedAt = now

	_, err := r.dealsCollection.InsertOne(ctx, deal)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	return nil
}

// UpdateDeal applies a partial field set and returns the updated deal
func (r *MongoProjectRepository) UpdateDeal(ctx context.Context, id string, fields map[string]any) (*domain.Deal, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		if key == "_id" || key == "id" {
			continue
		}
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var deal domain.Deal
	err := r.dealsCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&deal)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	return &deal, nil
}

// DeleteDeal removes a deal by id
func (r *MongoProjectRepository) DeleteDeal(ctx context.Context, id string) error {
	result, err := r.dealsCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
