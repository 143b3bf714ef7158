package domain

import "time"

// Project is a fundraising campaign with a target budget.
type Project struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Budget      float64   `json:"budget" bson:"budget"`
	Raised      float64   `json:"raised" bson:"raised"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// PipelineStage is one ordered stage in a project's deal pipeline.
type PipelineStage struct {
	ID           string    `json:"id" bson:"_id"`
	ProjectID    string    `json:"project_id" bson:"project_id"`
	Name         string    `json:"name" bson:"name"`
	Position     int       `json:"position" bson:"position"`
	TargetAmount float64   `json:"target_amount,omitempty" bson:"target_amount,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Deal is a prospective gift tracked through a project pipeline.
type Deal struct {
	ID        string    `json:"id" bson:"_id"`
	ProjectID string    `json:"project_id" bson:"project_id"`
	Title     string    `json:"title" bson:"title"`
	Amount    float64   `json:"amount" bson:"amount"`
	StageID   string    `json:"stage_id,omitempty" bson:"stage_id,omitempty"`
	ContactID string    `json:"contact_id,omitempty" bson:"contact_id,omitempty"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
