package domain

import "time"

// Comment is a free-form note left on a contact by a user.
type Comment struct {
	ID         string    `json:"id" bson:"_id"`
	ContactID  string    `json:"contact_id" bson:"contact_id"`
	ActivityID string    `json:"activity_id,omitempty" bson:"activity_id,omitempty"`
	Content    string    `json:"content" bson:"content"`
	AuthorID   string    `json:"author_id" bson:"author_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
