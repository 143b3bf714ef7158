package domain

import "time"

// Organization is a company or institution that contacts belong to.
type Organization struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Website     string    `json:"website,omitempty" bson:"website,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
