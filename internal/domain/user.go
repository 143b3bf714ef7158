package domain

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an authenticated operator of the CRM.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// APIToken is an opaque bearer token issued at login.
type APIToken struct {
	Token     string    `json:"token" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Expired reports whether the token is past its expiry.
func (t *APIToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
