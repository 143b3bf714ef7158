package domain

import "time"

// Schedule status values.
const (
	ScheduleStatusScheduled = "scheduled"
	ScheduleStatusCompleted = "completed"
	ScheduleStatusCancelled = "cancelled"
)

// Schedule is a planned meeting or follow-up with a contact.
type Schedule struct {
	ID          string     `json:"id" bson:"_id"`
	ContactID   string     `json:"contact_id" bson:"contact_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	StartTime   time.Time  `json:"start_time" bson:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty"`
	Status      string     `json:"status" bson:"status"`
	AssignedTo  string     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
