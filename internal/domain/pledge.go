package domain

import "time"

// Pledge type values.
const (
	PledgeTypePledge   = "pledge"
	PledgeTypeDonation = "donation"
	PledgeTypeZakat    = "zakat"
	PledgeTypeSadaqah  = "sadaqah"
)

// Pledge status values.
const (
	PledgeStatusPending  = "pending"
	PledgeStatusReceived = "received"
	PledgeStatusFailed   = "failed"
)

// Pledge is a promised or received donation from a contact.
type Pledge struct {
	ID            string               `json:"id" bson:"_id"`
	ContactID     string               `json:"contact_id" bson:"contact_id"`
	Amount        float64              `json:"amount" bson:"amount"`
	Currency      string               `json:"currency,omitempty" bson:"currency,omitempty"`
	Type          string               `json:"type" bson:"type"`
	Status        string               `json:"status" bson:"status"`
	PaymentMethod string               `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	ExpectedDate  *time.Time           `json:"expected_date,omitempty" bson:"expected_date,omitempty"`
	ReceivedDate  *time.Time           `json:"received_date,omitempty" bson:"received_date,omitempty"`
	Notes         string               `json:"notes,omitempty" bson:"notes,omitempty"`
	TransactionID string               `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	LoggedBy      string               `json:"logged_by,omitempty" bson:"logged_by,omitempty"`
	Sync          map[string]SyncState `json:"sync,omitempty" bson:"sync,omitempty"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}
