package domain

import "time"

// Email log statuses.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records an outbound email to a contact. Delivery itself is handled
// by an external email service; the log is the CRM-side record.
type EmailLog struct {
	ID         string     `json:"id" bson:"_id"`
	ContactID  string     `json:"contact_id" bson:"contact_id"`
	FromEmail  string     `json:"from_email" bson:"from_email"`
	ToEmail    string     `json:"to_email" bson:"to_email"`
	Subject    string     `json:"subject" bson:"subject"`
	Body       string     `json:"body" bson:"body"`
	Status     string     `json:"status" bson:"status"`
	Opened     bool       `json:"opened" bson:"opened"`
	OpenedAt   *time.Time `json:"opened_at,omitempty" bson:"opened_at,omitempty"`
	SentBy     string     `json:"sent_by,omitempty" bson:"sent_by,omitempty"`
	ExternalID string     `json:"external_id,omitempty" bson:"external_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}

// EmailStats aggregates the email log counts.
type EmailStats struct {
	Total  int64 `json:"total"`
	Sent   int64 `json:"sent"`
	Opened int64 `json:"opened"`
	Failed int64 `json:"failed"`
}
