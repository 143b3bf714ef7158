package domain

import "time"

// Activity type values.
const (
	ActivityTypeCall    = "call"
	ActivityTypeEmail   = "email"
	ActivityTypeMeeting = "meeting"
	ActivityTypeNote    = "note"
)

// Activity is an interaction logged against a contact.
type Activity struct {
	ID          string               `json:"id" bson:"_id"`
	ContactID   string               `json:"contact_id" bson:"contact_id"`
	Type        string               `json:"type" bson:"type"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Date        time.Time            `json:"date" bson:"date"`
	CreatedBy   string               `json:"created_by,omitempty" bson:"created_by,omitempty"`
	Sync        map[string]SyncState `json:"sync,omitempty" bson:"sync,omitempty"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}
