package domain

import "time"

// Lead status values for a contact. These map onto external CRM lifecycle
// stages during sync.
const (
	LeadStatusLead         = "lead"
	LeadStatusProspect     = "prospect"
	LeadStatusCustomer     = "customer"
	LeadStatusPastCustomer = "past_customer"
)

// Contact is a donor or prospect record.
type Contact struct {
	ID             string               `json:"id" bson:"_id"`
	FirstName      string               `json:"first_name" bson:"first_name"`
	LastName       string               `json:"last_name" bson:"last_name"`
	Email          string               `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Company        string               `json:"company,omitempty" bson:"company,omitempty"`
	OrganizationID string               `json:"organization_id,omitempty" bson:"organization_id,omitempty"`
	ProjectID      string               `json:"project_id,omitempty" bson:"project_id,omitempty"`
	LeadStatus     string               `json:"lead_status" bson:"lead_status"`
	AssignedTo     string               `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	Labels         []string             `json:"labels,omitempty" bson:"labels,omitempty"`
	CustomFields   map[string]string    `json:"custom_fields,omitempty" bson:"custom_fields,omitempty"`
	Sync           map[string]SyncState `json:"sync,omitempty" bson:"sync,omitempty"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// FullName returns the contact's display name.
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
