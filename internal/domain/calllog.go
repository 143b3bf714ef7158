package domain

import "time"

// Call directions.
const (
	CallDirectionInbound  = "inbound"
	CallDirectionOutbound = "outbound"
)

// CallLog records a phone call with a contact.
type CallLog struct {
	ID        string    `json:"id" bson:"_id"`
	ContactID string    `json:"contact_id" bson:"contact_id"`
	Duration  int       `json:"duration" bson:"duration"`
	Direction string    `json:"direction" bson:"direction"`
	Status    string    `json:"status" bson:"status"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CallDate  time.Time `json:"call_date" bson:"call_date"`
	LoggedBy  string    `json:"logged_by,omitempty" bson:"logged_by,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
